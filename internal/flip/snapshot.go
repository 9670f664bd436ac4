package flip

// PageState is the published state of one page.
type PageState struct {
	Index    int     `json:"index"`
	Rotation float32 `json:"rotation"`
	Bend     float32 `json:"bend"`
	Depth    float32 `json:"depth"`
	Flipped  bool    `json:"flipped"`
}

// Snapshot is a copy of the brochure state that may be handed to other goroutines.
type Snapshot struct {
	Current   int         `json:"current"`
	PageCount int         `json:"page_count"`
	Animating bool        `json:"animating"`
	Active    int         `json:"active"`
	Direction string      `json:"direction,omitempty"`
	Progress  float32     `json:"progress"`
	Pages     []PageState `json:"pages"`
}

// Snapshot copies the current state. Active is -1 when no turn is in flight.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Current:   c.current,
		PageCount: len(c.pages),
		Animating: c.anim != nil,
		Active:    -1,
		Pages:     make([]PageState, len(c.pages)),
	}
	if c.anim != nil {
		s.Active = c.anim.Page
		s.Direction = c.anim.Direction.String()
		s.Progress = c.anim.Progress()
	}
	for i, p := range c.pages {
		s.Pages[i] = PageState{
			Index:    p.Index,
			Rotation: p.Rotation,
			Bend:     p.Bend,
			Depth:    p.Depth,
			Flipped:  p.Flipped,
		}
	}
	return s
}
