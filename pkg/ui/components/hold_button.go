package components

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const holdTickInterval = 50 * time.Millisecond

// HoldButton confirms an action only after being held down for HoldFor.
// A progress bar fills while it is held and resets when released early.
type HoldButton struct {
	widget.BaseWidget
	Text        string
	HoldFor     time.Duration
	OnConfirmed func()

	// Minimum size of the button, zero uses the text size
	MinimumSize fyne.Size

	mu       sync.Mutex
	holding  bool
	hovered  bool
	progress float64
	ticker   *time.Ticker
	stop     chan struct{}
}

// NewHoldButton creates a HoldButton that calls onConfirmed once held for holdFor
func NewHoldButton(text string, holdFor time.Duration, onConfirmed func()) *HoldButton {
	b := &HoldButton{
		Text:        text,
		HoldFor:     holdFor,
		OnConfirmed: onConfirmed,
	}
	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer implements fyne.Widget
func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(b.Text, theme.Color(theme.ColorNameForeground))
	text.Alignment = fyne.TextAlignCenter

	bg := canvas.NewRectangle(theme.Color(theme.ColorNameButton))
	progressBar := canvas.NewRectangle(theme.Color(theme.ColorNamePrimary))

	return &holdButtonRenderer{
		button:      b,
		text:        text,
		bg:          bg,
		progressBar: progressBar,
	}
}

// Progress returns how far the hold has advanced, 0 to 1
func (b *HoldButton) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

func (b *HoldButton) setProgress(progress float64) {
	if progress > 1 {
		progress = 1
	}
	b.mu.Lock()
	b.progress = progress
	b.mu.Unlock()
	fyne.Do(b.Refresh)
}

// Tapped implements fyne.Tappable. Tapping alone never confirms.
func (b *HoldButton) Tapped(*fyne.PointEvent) {}

// TappedSecondary implements fyne.SecondaryTappable
func (b *HoldButton) TappedSecondary(*fyne.PointEvent) {}

// MouseIn implements desktop.Hoverable
func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.mu.Lock()
	b.hovered = true
	b.mu.Unlock()
	b.Refresh()
}

// MouseMoved implements desktop.Hoverable
func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (b *HoldButton) MouseOut() {
	b.mu.Lock()
	b.hovered = false
	b.mu.Unlock()
	// Leaving the button cancels the hold
	b.release()
}

// MouseDown implements desktop.Mouseable
func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	b.press()
}

// MouseUp implements desktop.Mouseable
func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.release()
}

func (b *HoldButton) press() {
	b.mu.Lock()
	if b.holding {
		b.mu.Unlock()
		return
	}
	b.holding = true
	b.progress = 0
	b.ticker = time.NewTicker(holdTickInterval)
	b.stop = make(chan struct{})
	ticker, stop := b.ticker, b.stop
	b.mu.Unlock()

	b.Refresh()

	holdFor := b.HoldFor
	if holdFor <= 0 {
		holdFor = holdTickInterval
	}
	increment := float64(holdTickInterval) / float64(holdFor)

	go func() {
		defer ticker.Stop()
		progress := 0.0
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				progress += increment
				b.setProgress(progress)
				if progress < 1.0 {
					continue
				}

				b.mu.Lock()
				confirmed := b.holding
				b.holding = false
				b.mu.Unlock()
				if confirmed && b.OnConfirmed != nil {
					b.OnConfirmed()
				}
				return
			}
		}
	}()
}

func (b *HoldButton) release() {
	b.mu.Lock()
	wasHolding := b.holding
	b.holding = false
	if wasHolding && b.stop != nil {
		close(b.stop)
		b.stop = nil
	}
	if wasHolding {
		b.progress = 0
	}
	b.mu.Unlock()

	b.Refresh()
}

type holdButtonRenderer struct {
	button      *HoldButton
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)

	// Progress bar fills from left to right
	progressWidth := size.Width * float32(r.button.Progress())
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))
	r.progressBar.Move(fyne.NewPos(0, 0))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	minWidth := textSize.Width + theme.Padding()*4
	minHeight := textSize.Height + theme.Padding()*2

	if minWidth < r.button.MinimumSize.Width {
		minWidth = r.button.MinimumSize.Width
	}
	if minHeight < r.button.MinimumSize.Height {
		minHeight = r.button.MinimumSize.Height
	}
	return fyne.NewSize(minWidth, minHeight)
}

func (r *holdButtonRenderer) Refresh() {
	r.button.mu.Lock()
	hovered := r.button.hovered
	r.button.mu.Unlock()

	r.text.Text = r.button.Text
	r.text.Color = theme.Color(theme.ColorNameForeground)

	if hovered {
		r.bg.FillColor = theme.Color(theme.ColorNameHover)
	} else {
		r.bg.FillColor = theme.Color(theme.ColorNameButton)
	}

	size := r.bg.Size()
	progressWidth := size.Width * float32(r.button.Progress())
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *holdButtonRenderer) Destroy() {}

func (r *holdButtonRenderer) BackgroundColor() color.Color {
	return theme.Color(theme.ColorNameButton)
}
