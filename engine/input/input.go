package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// trackedKeys are the keys the game reacts to
var trackedKeys = []ebiten.Key{
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeySpace, ebiten.KeyEscape, ebiten.KeyTab,
	ebiten.KeyShift, ebiten.KeyControl,
	ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
	ebiten.KeyB, ebiten.KeyC, ebiten.KeyF, ebiten.KeyG, ebiten.KeyH,
	ebiten.KeyP, ebiten.KeyQ, ebiten.KeyS, ebiten.KeyT, ebiten.KeyV,
	ebiten.KeyY, ebiten.KeyZ,
}

// InputState tracks mouse and keyboard state per frame. Update fills it from
// ebiten; tests fill it directly.
type InputState struct {
	// Mouse
	MouseX, MouseY    int
	MouseDX, MouseDY  int // delta since last frame
	prevMouseX        int
	prevMouseY        int
	LeftPressed       bool
	RightPressed      bool
	LeftJustPressed   bool
	RightJustPressed  bool
	LeftJustReleased  bool
	RightJustReleased bool
	ScrollY           float64

	// Drag
	DragStartX, DragStartY int
	Dragging               bool
	DragEnded              bool // a drag finished this frame
	DragThreshold          int

	// Keyboard
	KeysPressed map[ebiten.Key]bool
	KeysJust    map[ebiten.Key]bool
}

func NewInputState() *InputState {
	return &InputState{
		DragThreshold: 5,
		KeysPressed:   make(map[ebiten.Key]bool),
		KeysJust:      make(map[ebiten.Key]bool),
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	mx, my := ebiten.CursorPosition()
	_, scrollY := ebiten.Wheel()
	s.setMouse(mx, my,
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight))
	s.ScrollY = scrollY

	for _, k := range trackedKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
		s.KeysJust[k] = inpututil.IsKeyJustPressed(k)
	}
}

// setMouse applies one frame of mouse state and advances drag tracking
func (s *InputState) setMouse(mx, my int, leftDown, rightDown, leftJust, rightJust, leftUp, rightUp bool) {
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = mx, my
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY

	s.LeftPressed = leftDown
	s.RightPressed = rightDown
	s.LeftJustPressed = leftJust
	s.RightJustPressed = rightJust
	s.LeftJustReleased = leftUp
	s.RightJustReleased = rightUp

	s.DragEnded = false
	if s.LeftJustPressed {
		s.DragStartX = s.MouseX
		s.DragStartY = s.MouseY
		s.Dragging = false
	}
	if leftDown && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
	if !leftDown {
		s.DragEnded = s.Dragging && s.LeftJustReleased
		s.Dragging = false
	}
}

// IsKeyJustPressed returns true if key was just pressed this frame
func (s *InputState) IsKeyJustPressed(key ebiten.Key) bool {
	return s.KeysJust[key]
}

// IsKeyPressed returns true while key is held
func (s *InputState) IsKeyPressed(key ebiten.Key) bool {
	return s.KeysPressed[key]
}

// DragRect returns the selection rectangle if dragging
func (s *InputState) DragRect() (x1, y1, x2, y2 int, active bool) {
	if !s.Dragging {
		return 0, 0, 0, 0, false
	}
	return s.DragStartX, s.DragStartY, s.MouseX, s.MouseY, true
}

// ClearKeys drops this frame's key presses
func (s *InputState) ClearKeys() {
	clear(s.KeysPressed)
	clear(s.KeysJust)
}
