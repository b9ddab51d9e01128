package page

import (
	"bytes"
	"errors"

	"github.com/jung-kurt/gofpdf"

	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/utils"
)

// ===========================
// 📄 PDF Export
//
// Renders the public translations of a page and its subtree into a printable
// PDF, one section per page, tree order.

func (s *Service) ExportPDF(reg *region.Region, rootID *uint, langID uint, langSlug string) ([]byte, error) {
	pages, err := s.Repo.ListByRegion(reg.ID)
	if err != nil {
		return nil, err
	}

	childrenOf := map[uint][]*Page{}
	byID := map[uint]*Page{}
	var roots []*Page
	for i := range pages {
		p := &pages[i]
		byID[p.ID] = p
		if p.ParentID == nil {
			roots = append(roots, p)
		} else {
			childrenOf[*p.ParentID] = append(childrenOf[*p.ParentID], p)
		}
	}

	var ordered []*Page
	var walk func(p *Page)
	walk = func(p *Page) {
		ordered = append(ordered, p)
		for _, child := range childrenOf[p.ID] {
			walk(child)
		}
	}
	if rootID != nil {
		root, ok := byID[*rootID]
		if !ok {
			return nil, errors.New("page not found")
		}
		walk(root)
	} else {
		for _, root := range roots {
			walk(root)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(reg.Name, true)
	translator := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, translator(reg.Name), "", 0, "C", false, 0, "")
	})

	exported := 0
	for _, p := range ordered {
		t, err := s.PublicTranslation(p.ID, langID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 9, translator(t.Title), "", "L", false)
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, translator(utils.StripTagsFull(t.Content)), "", "L", false)
		exported++
	}
	if exported == 0 {
		return nil, errors.New("no public pages to export")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
