//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package charts

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoData = errors.New("nothing to chart")

const (
	CHRTWIDTH  = "900px"
	CHRTHEIGHT = "480px"
	FONTSTYLE  = "normal"
	LEFTALIGN  = "20"
	SAVETYPE   = "png"
	SAVESTR    = "Save to file..."
	MINSYMBOL  = 8
	MAXSYMBOL  = 60
)

// Point - one dot on a scatter chart
type Point struct {
	Name string
	X, Y float64
	Size int
}

func title(t, sub string) opts.Title {
	return opts.Title{
		Title:    t,
		Subtitle: sub,
		TitleStyle: &opts.TextStyle{
			FontStyle: FONTSTYLE,
			FontSize:  16,
		},
		Left: LEFTALIGN,
	}
}

func toolbox(name string) opts.Toolbox {
	return opts.Toolbox{
		Show:   true,
		Orient: "vertical",
		Right:  LEFTALIGN,
		Feature: &opts.ToolBoxFeature{
			SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
				Show:  true,
				Type:  SAVETYPE,
				Name:  name,
				Title: SAVESTR, // get chinese if ""
			},
		},
	}
}

// Group - the bars of one chart
type Group struct {
	Title  string
	Labels []string
	Values []float64
}

func (g Group) ok() bool {
	return len(g.Labels) > 0 && len(g.Labels) == len(g.Values)
}

// Bar - a labelled bar chart as a self-contained html page
func Bar(t, sub string, labels []string, values []float64) (string, error) {
	g := Group{Title: t, Labels: labels, Values: values}
	if !g.ok() {
		return "", ErrNoData
	}
	return render(newbar(g, sub))
}

// Page - several bar charts on one html page; empty groups are skipped
func Page(t string, groups []Group) (string, error) {
	page := components.NewPage()
	page.PageTitle = t
	for _, g := range groups {
		if g.ok() {
			page.AddCharts(newbar(g, ""))
		}
	}
	if len(page.Charts) == 0 {
		return "", ErrNoData
	}
	return render(page)
}

func newbar(g Group, sub string) *charts.Bar {
	t := g.Title
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: CHRTWIDTH, Height: CHRTHEIGHT, PageTitle: t}),
		charts.WithTitleOpts(title(t, sub)),
		charts.WithToolboxOpts(toolbox(t)),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: true, Rotate: 30, Interval: "0"}}),
	)

	items := make([]opts.BarData, len(g.Values))
	for i, v := range g.Values {
		items[i] = opts.BarData{Name: g.Labels[i], Value: v}
	}
	bar.SetXAxis(g.Labels).AddSeries(t, items)
	return bar
}

// Scatter - points sized by their Size field; used for the intertopic distance map
func Scatter(t, sub string, pts []Point) (string, error) {
	if len(pts) == 0 {
		return "", ErrNoData
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: CHRTWIDTH, Height: CHRTHEIGHT, PageTitle: t}),
		charts.WithTitleOpts(title(t, sub)),
		charts.WithToolboxOpts(toolbox(t)),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: "{b}"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "PC1"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "PC2"}),
	)

	biggest := 1
	for _, p := range pts {
		biggest = max(biggest, p.Size)
	}

	items := make([]opts.ScatterData, len(pts))
	for i, p := range pts {
		items[i] = opts.ScatterData{
			Name:       p.Name,
			Value:      []interface{}{p.X, p.Y},
			SymbolSize: MINSYMBOL + (MAXSYMBOL-MINSYMBOL)*p.Size/biggest,
		}
	}
	sc.AddSeries(t, items)

	return render(sc)
}

func render(c interface{ Render(w io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
