package jma

import (
	"fmt"
	"strings"
)

// hourlyPage renders an observation page with one hourly table of the
// given number of data rows, each with cells cells.
func hourlyPage(dataRows, cells int) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="tablefix1" class="data2_s">`)
	b.WriteString(`<tr><th rowspan="2">時</th><th colspan="2">気圧(hPa)</th></tr>`)
	b.WriteString(`<tr><th>現地</th><th>海面</th></tr>`)
	for h := 1; h <= dataRows; h++ {
		b.WriteString("<tr>")
		for c := 0; c < cells; c++ {
			switch c {
			case cellHour:
				fmt.Fprintf(&b, `<td style="white-space:nowrap">%d</td>`, h)
			case cellPrecipitation:
				b.WriteString(`<td class="data_0_0">--</td>`)
			case cellTemperature:
				fmt.Fprintf(&b, `<td class="data_0_0">%d.5</td>`, 20+h%5)
			case cellHumidity:
				b.WriteString(`<td class="data_0_0">80</td>`)
			case cellWindSpeed:
				b.WriteString(`<td class="data_0_0">3.2</td>`)
			case cellWeather:
				if h%2 == 0 {
					b.WriteString(`<td class="data_0_0"><img src="../../data/image/tenki/small/F01.png" alt="晴れ"></td>`)
				} else {
					b.WriteString(`<td class="data_0_0"></td>`)
				}
			default:
				b.WriteString(`<td class="data_0_0">///</td>`)
			}
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

func area(href, alt string) string {
	return fmt.Sprintf(`<area shape="rect" coords="0,0,1,1" href=%q alt=%q>`, href, alt)
}

func regionList(regions map[int]string, order []int) string {
	var b strings.Builder
	b.WriteString(`<html><body><map name="point">`)
	for _, id := range order {
		b.WriteString(area(fmt.Sprintf("prefecture.php?prec_no=%d&block_no=&year=&month=&day=&view=", id), regions[id]))
	}
	b.WriteString(`<area shape="rect" coords="0,0,1,1" alt="no link">`)
	b.WriteString(`</map></body></html>`)
	return b.String()
}

func stationArea(kind string, id int, name string) string {
	return fmt.Sprintf(`<area shape="rect" coords="0,0,1,1" href="#" onmouseover="javascript:viewPoint('%s','%d','%s','カナ','35','41.5','139','45.0','25.2','1','1','1','1','1','9999','99','99','','','','','');" onmouseout="javascript:initPoint();">`,
		kind, id, name)
}

func stationList(areas ...string) string {
	return `<html><body><map name="point">` + strings.Join(areas, "") + `<area shape="rect" href="#"></map></body></html>`
}
