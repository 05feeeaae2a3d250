package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ListManager is a bordered list with add and remove buttons under it
type ListManager struct {
	list        *widget.List
	data        []string
	selectedIdx int
	config      ListManagerConfig
}

// ListManagerConfig configures the list manager
type ListManagerConfig struct {
	RenderItem func(int) string  // Renders the item at an index, defaults to the raw string
	OnAdd      func()            // Called when + is pressed; the caller asks for input and calls AddItem
	OnRemove   func(int) bool    // Called before removing; returning false keeps the item
	OnSelect   func(int)         // Called when an item is selected
	OnChange   func()            // Called after the data changed
	AddControl fyne.CanvasObject // Shown left of the buttons (optional)
	MinHeight  float32
}

// NewListManager creates a new list manager component
func NewListManager(data []string, config ListManagerConfig) (*ListManager, *fyne.Container) {
	lm := &ListManager{
		data:        data,
		selectedIdx: -1,
		config:      config,
	}

	lm.list = widget.NewList(
		func() int {
			return len(lm.data)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if i < len(lm.data) {
				text := lm.data[i]
				if lm.config.RenderItem != nil {
					text = lm.config.RenderItem(i)
				}
				label.SetText(text)
			}
		})

	lm.list.OnSelected = func(id widget.ListItemID) {
		lm.selectedIdx = id
		if lm.config.OnSelect != nil {
			lm.config.OnSelect(id)
		}
	}

	plusButton := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		if lm.config.OnAdd != nil {
			lm.config.OnAdd()
		}
	})
	minusButton := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), lm.RemoveSelected)

	var addControls *fyne.Container
	if config.AddControl != nil {
		addControls = container.NewBorder(nil, nil, nil,
			container.NewHBox(plusButton, minusButton),
			config.AddControl)
	} else {
		addControls = container.NewHBox(plusButton, minusButton)
	}

	minHeight := config.MinHeight
	if minHeight <= 0 {
		minHeight = 150
	}
	listScroll := container.NewScroll(lm.list)
	listScroll.SetMinSize(fyne.NewSize(0, minHeight))

	listWithBorder := container.NewBorder(
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		listScroll,
	)

	return lm, container.NewVBox(listWithBorder, addControls)
}

// Refresh refreshes the list display
func (lm *ListManager) Refresh() {
	lm.list.Refresh()
}

// GetData returns the current data
func (lm *ListManager) GetData() []string {
	return lm.data
}

// Selected returns the selected index, or -1
func (lm *ListManager) Selected() int {
	return lm.selectedIdx
}

// SetData replaces the data and clears the selection
func (lm *ListManager) SetData(data []string) {
	lm.data = data
	lm.selectedIdx = -1
	lm.list.UnselectAll()
	lm.list.Refresh()
}

// AddItem appends an item
func (lm *ListManager) AddItem(item string) {
	lm.data = append(lm.data, item)
	lm.list.Refresh()
	if lm.config.OnChange != nil {
		lm.config.OnChange()
	}
}

// RemoveSelected removes the selected item unless OnRemove vetoes it
func (lm *ListManager) RemoveSelected() {
	idx := lm.selectedIdx
	if idx < 0 || idx >= len(lm.data) {
		return
	}
	if lm.config.OnRemove != nil && !lm.config.OnRemove(idx) {
		return
	}
	lm.RemoveAt(idx)
}

// RemoveAt removes the item at idx without asking OnRemove
func (lm *ListManager) RemoveAt(idx int) {
	if idx < 0 || idx >= len(lm.data) {
		return
	}
	lm.data = append(lm.data[:idx], lm.data[idx+1:]...)
	lm.list.UnselectAll()
	lm.selectedIdx = -1
	lm.list.Refresh()
	if lm.config.OnChange != nil {
		lm.config.OnChange()
	}
}
