package docket

import "time"

// Header is what the page header declares before the first case
type Header struct {
	Date  time.Time
	Panel []string
	// Found is false when no date header exists; such a page has no docket.
	Found bool
	// Next is the index of the first item after the header.
	Next int
}

// ScanHeader finds the consideration date and the opening panel.
//
// Everything before the date header is ignored. After the date, scanning stops at the
// first panel header and Next points just past it. When the page never declares a
// panel, Panel is empty and Next points just past the date header so the cases on the
// page are still built.
func ScanHeader(items []Item) (Header, error) {
	h := Header{Panel: []string{}, Next: len(items)}

	i := 0
	for ; i < len(items); i++ {
		if items[i].Kind != KindDateHeader {
			continue
		}
		date, err := ExtractDate(items[i].Text)
		if err != nil {
			return Header{}, err
		}
		h.Date = date
		h.Found = true
		i++
		break
	}
	if !h.Found {
		return h, nil
	}

	afterDate := i
	for ; i < len(items); i++ {
		if items[i].Kind == KindPanelHeader {
			h.Panel = ExtractPanel(items[i].Text)
			h.Next = i + 1
			return h, nil
		}
	}

	h.Next = afterDate
	return h, nil
}
