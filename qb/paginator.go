package qb

import (
	"fmt"
	"math"
	"sort"

	"github.com/jedib0t/go-pretty/table"
)

// Paginator is one page of a query result and the metadata needed to walk
// the other pages.
type Paginator struct {
	Items       []Row `json:"items"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// NewPaginator computes the page metadata. LastPage is at least 1; From and
// To are 1-based positions of the first and last items, both 0 on an empty
// page.
func NewPaginator(items []Row, total int64, perPage int, currentPage int) *Paginator {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if items == nil {
		items = []Row{}
	}
	p := &Paginator{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: currentPage,
		LastPage:    int(math.Max(1, math.Ceil(float64(total)/float64(perPage)))),
	}
	if len(items) > 0 {
		p.From = perPage*(currentPage-1) + 1
		p.To = p.From + len(items) - 1
	}
	return p
}

func (p *Paginator) HasMorePages() bool {
	return p.CurrentPage < p.LastPage
}

func (p *Paginator) OnFirstPage() bool {
	return p.CurrentPage <= 1
}

// Render draws the items as a text table followed by the page summary.
func (p *Paginator) Render() string {
	w := table.NewWriter()
	columns := rowColumns(p.Items)
	header := table.Row{}
	for _, c := range columns {
		header = append(header, c)
	}
	w.AppendHeader(header)
	for _, item := range p.Items {
		row := table.Row{}
		for _, c := range columns {
			row = append(row, item[c])
		}
		w.AppendRow(row)
	}
	w.AppendFooter(table.Row{fmt.Sprintf("%d-%d of %d, page %d/%d", p.From, p.To, p.Total, p.CurrentPage, p.LastPage)})
	return w.Render()
}

// rowColumns returns the sorted union of the column names of rows.
func rowColumns(rows []Row) []string {
	seen := map[string]struct{}{}
	var columns []string
	for _, row := range rows {
		for c := range row {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				columns = append(columns, c)
			}
		}
	}
	sort.Strings(columns)
	return columns
}
