// Package nav is the push-style navigation history of the signed-in UI:
// one stack of frames, reset whenever a tab is chosen.
package nav

import "github.com/leemaz/leemaz/pkg/domain"

// Screen names a destination.
type Screen string

// Tab roots.
const (
	Home      Screen = "Home"
	Shop      Screen = "Shop"
	Favorites Screen = "Favorites"
	Chat      Screen = "Chat"
	Profile   Screen = "Profile"
)

// Non-root screens with a dedicated view.
const (
	ProductDetails   Screen = "ProductDetails"
	CreateProduct    Screen = "CreateProduct"
	CreateShop       Screen = "CreateShop"
	ChatConversation Screen = "ChatConversation"
	Orders           Screen = "Orders"
	CreateOrder      Screen = "CreateOrder"
	AdminPanel       Screen = "AdminPanel"
)

// TabRoots lists every screen that can be a tab root.
var TabRoots = []Screen{Home, Shop, Favorites, Chat, Profile}

var known = map[Screen]bool{
	Home: true, Shop: true, Favorites: true, Chat: true, Profile: true,
	ProductDetails: true, CreateProduct: true, CreateShop: true, ChatConversation: true,
	Orders: true, CreateOrder: true, AdminPanel: true,
}

// IsTabRoot reports whether s is one of the tab roots.
func IsTabRoot(s Screen) bool {
	for _, r := range TabRoots {
		if r == s {
			return true
		}
	}
	return false
}

// Resolve maps s to the screen that renders it. Unknown names fall back
// to Home.
func Resolve(s Screen) Screen {
	if known[s] {
		return s
	}
	return Home
}

// TabsFor returns the tab list for role. Favorites is a buyer-only tab.
func TabsFor(role domain.Role) []Screen {
	tabs := []Screen{Home, Shop}
	if role == domain.RoleBuyer {
		tabs = append(tabs, Favorites)
	}
	return append(tabs, Chat, Profile)
}

// Params are opaque screen arguments.
type Params map[string]any

// String returns the string value of key, or "".
func (p Params) String(key string) string {
	v, _ := p[key].(string)
	return v
}

// Frame is one entry in the history.
type Frame struct {
	Screen Screen
	Params Params
}

// Stack is the navigation history. It is not safe for concurrent use.
type Stack struct {
	frames []Frame
	active Screen
	tabs   []Screen
}

// New returns a stack holding a single Home frame.
func New(role domain.Role) *Stack {
	return &Stack{
		frames: []Frame{{Screen: Home}},
		active: Home,
		tabs:   TabsFor(role),
	}
}

// Navigate pushes a frame. There is no deduplication and no depth bound.
func (s *Stack) Navigate(screen Screen, params Params) {
	s.frames = append(s.frames, Frame{Screen: screen, Params: params})
}

// GoBack pops the top frame. At depth 1 it does nothing and returns false.
// When the new top is a tab root it becomes the active tab.
func (s *Stack) GoBack() bool {
	if len(s.frames) <= 1 {
		return false
	}
	s.frames[len(s.frames)-1] = Frame{}
	s.frames = s.frames[:len(s.frames)-1]
	if top := s.Top(); IsTabRoot(top.Screen) {
		s.active = top.Screen
	}
	return true
}

// SwitchTab replaces the whole history with a single root frame for tab.
// A tab that is not offered to this role falls back to Home.
func (s *Stack) SwitchTab(tab Screen) {
	if !s.hasTab(tab) {
		tab = Home
	}
	s.frames = []Frame{{Screen: tab}}
	s.active = tab
}

func (s *Stack) hasTab(tab Screen) bool {
	for _, t := range s.tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Top returns the current frame.
func (s *Stack) Top() Frame { return s.frames[len(s.frames)-1] }

// Depth returns the number of frames.
func (s *Stack) Depth() int { return len(s.frames) }

// ActiveTab returns the highlighted tab.
func (s *Stack) ActiveTab() Screen { return s.active }

// Tabs returns the tab list for the stack's role.
func (s *Stack) Tabs() []Screen {
	out := make([]Screen, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// TabBarVisible reports whether the tab bar is shown: only on tab roots.
func (s *Stack) TabBarVisible() bool { return IsTabRoot(s.Top().Screen) }
