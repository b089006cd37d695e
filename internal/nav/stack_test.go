package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leemaz/leemaz/pkg/domain"
)

func TestNew(t *testing.T) {
	s := New(domain.RoleBuyer)
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, Home, s.Top().Screen)
	assert.Equal(t, Home, s.ActiveTab())
	assert.True(t, s.TabBarVisible())
}

func TestNavigateAndGoBack(t *testing.T) {
	s := New(domain.RoleBuyer)
	s.Navigate(ProductDetails, Params{"productId": "p1"})
	s.Navigate(ChatConversation, Params{"userId": "u2", "userName": "Fatima"})

	require.Equal(t, 3, s.Depth())
	assert.Equal(t, "u2", s.Top().Params.String("userId"))
	assert.False(t, s.TabBarVisible())

	assert.True(t, s.GoBack())
	assert.Equal(t, ProductDetails, s.Top().Screen)
	assert.Equal(t, "p1", s.Top().Params.String("productId"))

	assert.True(t, s.GoBack())
	assert.Equal(t, Home, s.Top().Screen)
	assert.True(t, s.TabBarVisible())
}

func TestGoBackAtRootIsNoop(t *testing.T) {
	s := New(domain.RoleSeller)
	for i := 0; i < 3; i++ {
		assert.False(t, s.GoBack())
		assert.Equal(t, 1, s.Depth())
		assert.Equal(t, Home, s.Top().Screen)
	}
}

func TestNavigateDoesNotDedupe(t *testing.T) {
	s := New(domain.RoleBuyer)
	s.Navigate(ProductDetails, Params{"productId": "p1"})
	s.Navigate(ProductDetails, Params{"productId": "p1"})
	assert.Equal(t, 3, s.Depth())
}

func TestSwitchTabResetsHistory(t *testing.T) {
	s := New(domain.RoleBuyer)
	s.Navigate(ProductDetails, Params{"productId": "p1"})
	s.SwitchTab(Shop)

	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, Frame{Screen: Shop}, s.Top())
	assert.Equal(t, Shop, s.ActiveTab())
	assert.False(t, s.GoBack())
}

func TestSwitchTabUnknownFallsBackToHome(t *testing.T) {
	s := New(domain.RoleSeller)
	s.SwitchTab(Profile)
	s.SwitchTab(Favorites) // not offered to sellers
	assert.Equal(t, Home, s.ActiveTab())
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, Frame{Screen: Home}, s.Top())

	s.SwitchTab("Settings")
	assert.Equal(t, Home, s.ActiveTab())
}

func TestGoBackRestoresActiveTab(t *testing.T) {
	s := New(domain.RoleBuyer)
	s.SwitchTab(Chat)
	s.Navigate(ChatConversation, Params{"userId": "u2"})
	s.Navigate(Profile, nil)
	s.Navigate(ProductDetails, Params{"productId": "p3"})

	assert.True(t, s.GoBack())
	assert.Equal(t, Profile, s.ActiveTab())
	assert.True(t, s.GoBack())
	assert.Equal(t, Profile, s.ActiveTab(), "non-root top leaves the tab alone")
	assert.True(t, s.GoBack())
	assert.Equal(t, Chat, s.ActiveTab())
}

func TestTabsFor(t *testing.T) {
	assert.Equal(t, []Screen{Home, Shop, Favorites, Chat, Profile}, TabsFor(domain.RoleBuyer))
	assert.Equal(t, []Screen{Home, Shop, Chat, Profile}, TabsFor(domain.RoleSeller))
	assert.Equal(t, []Screen{Home, Shop, Chat, Profile}, TabsFor(domain.RoleAdmin))
	assert.NotContains(t, New(domain.RoleAdmin).Tabs(), Favorites)
}

func TestTabBarVisibility(t *testing.T) {
	s := New(domain.RoleBuyer)
	for _, screen := range []Screen{Home, Shop, Favorites, Chat, Profile} {
		s.Navigate(screen, nil)
		assert.True(t, s.TabBarVisible(), "screen %s", screen)
	}
	for _, screen := range []Screen{ProductDetails, CreateProduct, CreateShop, ChatConversation, Orders, CreateOrder, AdminPanel, "Whatever"} {
		s.Navigate(screen, nil)
		assert.False(t, s.TabBarVisible(), "screen %s", screen)
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, ProductDetails, Resolve(ProductDetails))
	assert.Equal(t, Favorites, Resolve(Favorites))
	assert.Equal(t, Orders, Resolve(Orders))
	assert.Equal(t, CreateOrder, Resolve(CreateOrder))
	assert.Equal(t, AdminPanel, Resolve(AdminPanel))
	assert.Equal(t, Home, Resolve("Nope"))
	assert.Equal(t, Home, Resolve("Settings"))
}

func TestStackNeverEmpties(t *testing.T) {
	s := New(domain.RoleBuyer)
	ops := []func(){
		func() { s.Navigate(ProductDetails, nil) },
		func() { s.GoBack() },
		func() { s.GoBack() },
		func() { s.SwitchTab(Chat) },
		func() { s.GoBack() },
		func() { s.Navigate(Orders, nil) },
		func() { s.GoBack() },
		func() { s.GoBack() },
	}
	for i, op := range ops {
		op()
		require.GreaterOrEqual(t, s.Depth(), 1, "after op %d", i)
	}
}
