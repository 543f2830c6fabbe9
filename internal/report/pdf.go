package report

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"worktimer/internal/core/timer"
	"worktimer/internal/ledger"
)

var entryGrid = []uint{3, 4, 3, 2}

// WritePDF exports a ledger report with one table per work item.
func WritePDF(path string, rep ledger.Report, location *time.Location) error {
	if location == nil {
		location = time.Local
	}

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Time report: "+string(rep.Period), props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(formatRange(rep, location), props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	headers := []string{"Start", "End", "Duration", "Hours"}
	for _, bucket := range rep.Sorted() {
		rows := make([][]string, 0, len(bucket.Entries))
		for _, entry := range bucket.Entries {
			rows = append(rows, []string{
				time.UnixMilli(entry.StartTime).In(location).Format("2006-01-02 15:04"),
				time.UnixMilli(entry.EndTime).In(location).Format("2006-01-02 15:04"),
				timer.FormatElapsed(entry.Duration),
				HoursDecimal(entry.Duration),
			})
		}

		title := fmt.Sprintf("Work item #%d", bucket.WorkItemID)
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(title, props.Text{
					Top:   5,
					Style: consts.Bold,
					Size:  12,
					Align: consts.Left,
				})
			})
		})

		m.TableList(headers, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      10,
				GridSizes: entryGrid,
			},
			ContentProp: props.TableListContent{
				Size:      10,
				GridSizes: entryGrid,
			},
			Align:                consts.Center,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
			Line:                 false,
		})

		subtotal := fmt.Sprintf("Subtotal: %s", timer.FormatElapsed(bucket.TotalSeconds))
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(subtotal, props.Text{
					Style: consts.Bold,
					Align: consts.Right,
					Size:  10,
				})
			})
		})
		m.Row(5, func() {})
	}

	total := fmt.Sprintf("Total time: %s (%s h)", timer.FormatElapsed(rep.TotalSeconds()), HoursDecimal(rep.TotalSeconds()))
	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(total, props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf report: %w", err)
	}
	return nil
}
