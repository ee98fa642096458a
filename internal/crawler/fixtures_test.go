package crawler

import (
	"fmt"
	"strings"
)

const testBase = "https://www.bobaedream.co.kr"

type card struct {
	no     int
	title  string
	price  string
	aux    []string
	region string
	noLink bool
}

func productItem(c card) string {
	var b strings.Builder
	b.WriteString(`<li class="product-item">`)
	if c.noLink {
		fmt.Fprintf(&b, `<div class="mode-cell title"><p class="tit"><a href="#none">%s</a></p></div>`, c.title)
	} else {
		fmt.Fprintf(&b, `<div class="mode-cell title"><p class="tit"><a href="/mycar/mycar_view.php?no=%d&amp;gubun=K" class="ellipsis">%s</a></p></div>`, c.no, c.title)
	}
	if c.price != "" {
		fmt.Fprintf(&b, `<div class="mode-cell price"><b class="price">%s</b></div>`, c.price)
	}
	if len(c.aux) > 0 {
		b.WriteString(`<span class="data-line">`)
		for _, a := range c.aux {
			fmt.Fprintf(&b, `<span>%s</span>`, a)
		}
		b.WriteString(`</span>`)
	}
	if c.region != "" {
		fmt.Fprintf(&b, `<span class="region">%s</span>`, c.region)
	}
	b.WriteString(`</li>`)
	return b.String()
}

func listPage(cards ...card) string {
	var b strings.Builder
	b.WriteString(`<html><head><meta charset="utf-8"></head><body><div class="wrap-list"><ul class="clearfix">`)
	for _, c := range cards {
		b.WriteString(productItem(c))
	}
	b.WriteString(`</ul></div></body></html>`)
	return b.String()
}

func detailLink(no int) string {
	return fmt.Sprintf("%s/mycar/mycar_view.php?no=%d&gubun=K", testBase, no)
}

const detailPage = `<html><body>
<div class="title-area"><h3 class="tit">현대 쏘나타 DN8 2.0 프리미엄</h3></div>
<div class="price-area"><span class="price">2,350만원</span></div>
<div class="tbl-01 st-low">
<table>
<tr><th>연식</th><td>2021년 03월</td><th>주행거리</th><td>32,000km</td></tr>
<tr><th>연료</th><td>가솔린</td><th>변속기</th><td>오토</td></tr>
<tr><th>차종</th><td>중형</td><th>배기량</th><td>1,999cc</td></tr>
<tr><th>색상</th><td>흰색</td></tr>
</table>
</div>
</body></html>`

const makerPage = `<html><body>
<div class="area-maker"><ul>
<li><button type="button" onclick="car_depth_lite('3','1','');"><span class="t1">현대</span><span class="t2">45,210</span></button></li>
<li><button type="button" onclick="car_depth_lite('49','1','');"><span class="t1">기아</span><span class="t2">38120</span></button></li>
<li><button type="button" onclick="car_depth_lite('999','1','');"><span class="t1">기타</span><span class="t2">0</span></button></li>
</ul></div>
</body></html>`
