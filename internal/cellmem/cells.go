package cellmem

import "fmt"

// DefaultPageSize provides a default for Cells.PageSize.
const DefaultPageSize = 1024

// BoundsError indicates a guarded-mode access at or past a watermark (the
// caller's notion of "legitimately allocated so far", typically `here`).
// Unlike LimitError, a hard physical ceiling always enforced, this check is
// opt-in: a caller running in guarded mode calls CheckWatermark itself
// before Load/Stor on a user-supplied address, so a stray pointer is
// caught as an error instead of silently reading zero or growing a page.
type BoundsError struct {
	Addr, Watermark uint
	Op              string
}

func (b BoundsError) Error() string {
	return fmt.Sprintf("guarded %v @%v past watermark %v", b.Op, b.Addr, b.Watermark)
}

// CheckWatermark returns a BoundsError if addr is at or past watermark.
func (m *Cells) CheckWatermark(addr, watermark uint, op string) error {
	if addr >= watermark {
		return BoundsError{Addr: addr, Watermark: watermark, Op: op}
	}
	return nil
}

// Cells implements the Cell Store: a paged array of int64 cells, addressed
// by a nonnegative uint index. Unallocated addresses read as 0; a store
// beyond the current high-water mark allocates whatever pages are needed
// to cover it.
//
// Pages need not be equal size in general, but in practice usually are,
// since they are all allocated at PageSize except where an earlier store
// left a gap smaller than a full page.
type Cells struct {
	pagedCore
	pages [][]int64
}

// SetPageSize overrides the page size used for future allocations. Must be
// called before the first Stor, or it has no effect.
func (m *Cells) SetPageSize(n uint) { m.PageSize = n }

// SetLimit sets the address limit; 0 means unlimited.
func (m *Cells) SetLimit(n uint) { m.Limit = n }

// Size returns one past the highest address any page currently covers.
func (m *Cells) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// Load returns the cell at addr, or 0 if addr falls in an unallocated page.
func (m *Cells) Load(addr uint) (int64, error) {
	if err := m.checkLimit(addr, "load"); err != nil {
		return 0, err
	}
	if m.PageSize == 0 || len(m.pages) == 0 {
		return 0, nil
	}

	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	if i := int(addr) - int(base); 0 <= i && i < len(page) {
		return page[i], nil
	}
	return 0, nil
}

// LoadInto fills buf with len(buf) consecutive cells starting at addr,
// zeroing any stretch that falls in an unallocated page.
func (m *Cells) LoadInto(addr uint, buf []int64) error {
	if len(buf) == 0 {
		return nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(end, "load"); err != nil {
		return err
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base > end {
			break
		}

		if skip := int(base) - int(addr); skip > 0 {
			if skip >= len(buf) {
				break
			}
			addr += uint(skip)
			for i := range buf[:skip] {
				buf[i] = 0
			}
			buf = buf[skip:]
		}

		page := m.pages[pageID]
		if skip := int(addr) - int(base); skip > 0 {
			if skip >= len(page) {
				continue
			}
			base += uint(skip)
			page = page[skip:]
		}

		n := copy(buf, page)
		buf = buf[n:]
		addr += uint(n)
	}

	for i := range buf {
		buf[i] = 0
	}
	return nil
}

// Stor writes values starting at addr, allocating pages as needed.
func (m *Cells) Stor(addr uint, values ...int64) error {
	if len(values) == 0 {
		return nil
	}

	end := addr + uint(len(values))
	if err := m.checkLimit(end, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			base += skip
			page = page[skip:]
		}
		n := copy(page, values)
		values = values[n:]
		addr += uint(n)
	}
	return nil
}

func (m *Cells) allocPage(pageID int, addr uint) (base, size uint, page []int64) {
	base, size, isNew := m.pagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]int64, size)
		if pageID == len(m.bases) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
