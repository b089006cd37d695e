package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/internal/i18n"
	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// screen is the model behind one navigation frame.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	// editing reports whether keystrokes go to a text input, which
	// suspends the global keys.
	editing() bool
	helpKeys() string
}

// navigateMsg pushes a frame.
type navigateMsg struct {
	screen nav.Screen
	params nav.Params
}

// goBackMsg pops a frame.
type goBackMsg struct{}

// logoutMsg ends the session.
type logoutMsg struct{}

// sessionRefreshedMsg reports a RefreshUser outcome.
type sessionRefreshedMsg struct{ err error }

func navigate(s nav.Screen, params nav.Params) tea.Cmd {
	return func() tea.Msg { return navigateMsg{screen: s, params: params} }
}

func goBack() tea.Msg { return goBackMsg{} }

// deps are the collaborators shared by every screen.
type deps struct {
	api   *client.Client
	sess  *session.Manager
	prefs *i18n.Preferences
	me    domain.Session
}

// buildScreen creates the model for frame. Names without a dedicated
// view render as the Home root.
func buildScreen(d deps, f nav.Frame) screen {
	switch nav.Resolve(f.Screen) {
	case nav.Shop:
		return newShopModel(d)
	case nav.Favorites:
		return newProductsModel(d, productsFavorites)
	case nav.Chat:
		return newChatListModel(d)
	case nav.Profile:
		return newProfileModel(d)
	case nav.ProductDetails:
		return newDetailsModel(d, f.Params.String("productId"))
	case nav.ChatConversation:
		return newConversationModel(d, f.Params.String("userId"), f.Params.String("userName"))
	case nav.CreateShop:
		return newShopForm(d)
	case nav.CreateProduct:
		return newProductForm(d, f.Params.String("shopId"))
	case nav.Orders:
		return newOrdersModel(d)
	case nav.CreateOrder:
		return newOrderForm(d, f.Params.String("productId"))
	case nav.AdminPanel:
		return newAdminModel(d)
	default:
		return newProductsModel(d, productsAll)
	}
}
