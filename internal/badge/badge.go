package badge

import (
	"strconv"
	"sync"
)

// maxCount is the largest total rendered as digits; anything above is capped.
const maxCount = 999

// Icon is the toolbar icon state.
type Icon string

const (
	// IconDefault is the inactive icon shown when no unread data came back
	IconDefault Icon = "default"
	// IconActive is shown when at least one account yielded messages
	IconActive Icon = "active"
)

// FormatText renders a total unread count as badge text: empty when zero,
// the decimal string otherwise, capped as "999+" above the limit.
func FormatText(total int) string {
	if total <= 0 {
		return ""
	}
	if total > maxCount {
		return "999+"
	}
	return strconv.Itoa(total)
}

// Indicator is the currently published toolbar state.
type Indicator struct {
	Text  string `json:"text"`
	Color string `json:"color"`
	Icon  Icon   `json:"icon"`
}

// Board holds the published indicator for readers. The poller is the only
// writer.
type Board struct {
	mu      sync.RWMutex
	current Indicator
}

// NewBoard creates a board in the cleared state
func NewBoard() *Board {
	return &Board{current: Indicator{Icon: IconDefault}}
}

// Publish replaces the indicator wholesale.
func (b *Board) Publish(text, color string, icon Icon) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = Indicator{Text: text, Color: color, Icon: icon}
}

// Clear hides the badge and restores the default icon.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = Indicator{Icon: IconDefault}
}

// Current returns the published indicator.
func (b *Board) Current() Indicator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}
