package charts

import (
	"encoding/json"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Thousands-separated numbers on axes and value labels.
var (
	thousandsAxis  = opts.FuncOpts(`function (v) { return Math.round(v).toLocaleString('en-US'); }`)
	thousandsLabel = opts.FuncOpts(`function (p) { var v = Array.isArray(p.value) ? p.value[p.value.length - 1] : p.value; return Math.round(v).toLocaleString('en-US'); }`)
)

// percentLabel renders "1,234 (56.7%)" using the percentages by data index.
func percentLabel(percents []float64) types.FuncStr {
	data, _ := json.Marshal(percents)
	return opts.FuncOpts(`function (p) { var pct = ` + string(data) + `; return Math.round(p.value).toLocaleString('en-US') + ' (' + pct[p.dataIndex].toFixed(1) + '%)'; }`)
}

// FormatThousands renders n with comma separators, as the chart labels do.
func FormatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
