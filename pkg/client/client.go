package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leemaz/leemaz/pkg/domain"
)

// DefaultTimeout bounds every HTTP round trip made by the client.
const DefaultTimeout = 15 * time.Second

// Token is the response of POST /auth/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	FullName string          `json:"full_name"`
	UserType domain.Role     `json:"user_type"`
	Language domain.Language `json:"language"`
}

// Client is the Leemaz API client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu             sync.RWMutex
	token          string
	onUnauthorized func(token string)
}

// New creates a new API client. baseURL is the server root; the /api
// prefix is appended here.
func New(baseURL, token string) *Client {
	return NewWithTimeout(baseURL, token, DefaultTimeout)
}

// NewWithTimeout creates a client with a custom per-request timeout.
func NewWithTimeout(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken replaces the default bearer token. An empty token removes the header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current default bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers fn to run after a 401 response to a request
// that carried the client's default token. fn receives the rejected token.
func (c *Client) OnUnauthorized(fn func(token string)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// --- Auth ---

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var tok Token
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &tok); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("client.Login: empty access token")
	}
	return &tok, nil
}

// Register creates a new account. The account must be verified before login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// VerifyEmail submits the emailed verification code.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", "", body, nil); err != nil {
		return fmt.Errorf("client.VerifyEmail: %w", err)
	}
	return nil
}

// GetMe returns the authenticated user.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// GetMeWithToken returns the user identified by token, without touching
// the client's default token.
func (c *Client) GetMeWithToken(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &u); err != nil {
		return nil, fmt.Errorf("client.GetMeWithToken: %w", err)
	}
	return &u, nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &out); err != nil {
		return fmt.Errorf("client.Health: %w", err)
	}
	return nil
}

// --- Shops ---

// CreateShopRequest is the payload for opening a shop.
type CreateShopRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CreateShop opens a shop for the authenticated seller.
func (c *Client) CreateShop(ctx context.Context, req CreateShopRequest) (*domain.Shop, error) {
	var shop domain.Shop
	if err := c.post(ctx, "/shops", req, &shop); err != nil {
		return nil, fmt.Errorf("client.CreateShop: %w", err)
	}
	return &shop, nil
}

// GetMyShop returns the authenticated seller's shop.
func (c *Client) GetMyShop(ctx context.Context) (*domain.Shop, error) {
	var shop domain.Shop
	if err := c.get(ctx, "/shops/my", &shop); err != nil {
		return nil, fmt.Errorf("client.GetMyShop: %w", err)
	}
	return &shop, nil
}

// ListShops fetches active shops.
func (c *Client) ListShops(ctx context.Context, skip, limit int) ([]domain.Shop, error) {
	var shops []domain.Shop
	if err := c.get(ctx, "/shops?"+page(skip, limit).Encode(), &shops); err != nil {
		return nil, fmt.Errorf("client.ListShops: %w", err)
	}
	return shops, nil
}

// --- Products ---

// CreateProductRequest is the payload for listing a product.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	ShopID      string   `json:"shop_id"`
}

// CreateProduct lists a product in the seller's shop.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	if req.Images == nil {
		req.Images = []string{}
	}
	var p domain.Product
	if err := c.post(ctx, "/products", req, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &p, nil
}

// ListProducts fetches products with an optional category filter.
func (c *Client) ListProducts(ctx context.Context, category string, skip, limit int) ([]domain.Product, error) {
	params := page(skip, limit)
	if category != "" {
		params.Set("category", category)
	}

	var products []domain.Product
	if err := c.get(ctx, "/products?"+params.Encode(), &products); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return &p, nil
}

// ListProductReviews fetches reviews for a product.
func (c *Client) ListProductReviews(ctx context.Context, productID string, skip, limit int) ([]domain.Review, error) {
	var reviews []domain.Review
	path := "/products/" + url.PathEscape(productID) + "/reviews?" + page(skip, limit).Encode()
	if err := c.get(ctx, path, &reviews); err != nil {
		return nil, fmt.Errorf("client.ListProductReviews: %w", err)
	}
	return reviews, nil
}

// CreateReviewRequest is the payload for rating a product.
type CreateReviewRequest struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateReview posts a review for a product.
func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (*domain.Review, error) {
	if !domain.ValidRating(req.Rating) {
		return nil, fmt.Errorf("client.CreateReview: rating %d out of range", req.Rating)
	}
	var r domain.Review
	if err := c.post(ctx, "/reviews", req, &r); err != nil {
		return nil, fmt.Errorf("client.CreateReview: %w", err)
	}
	return &r, nil
}

// --- Chat ---

// SendMessage sends a direct message to receiverID.
func (c *Client) SendMessage(ctx context.Context, receiverID, message string) (*domain.ChatMessage, error) {
	var msg domain.ChatMessage
	body := map[string]string{"receiver_id": receiverID, "message": message}
	if err := c.post(ctx, "/chat/messages", body, &msg); err != nil {
		return nil, fmt.Errorf("client.SendMessage: %w", err)
	}
	return &msg, nil
}

// ListConversations returns the caller's conversations, newest first.
func (c *Client) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	if err := c.get(ctx, "/chat/conversations", &convs); err != nil {
		return nil, fmt.Errorf("client.ListConversations: %w", err)
	}
	return convs, nil
}

// GetChatMessages returns messages exchanged with userID, newest first.
func (c *Client) GetChatMessages(ctx context.Context, userID string, skip, limit int) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	path := "/chat/messages/" + url.PathEscape(userID) + "?" + page(skip, limit).Encode()
	if err := c.get(ctx, path, &msgs); err != nil {
		return nil, fmt.Errorf("client.GetChatMessages: %w", err)
	}
	return msgs, nil
}

// --- Favorites ---

// AddFavorite adds a product to the caller's favorites.
func (c *Client) AddFavorite(ctx context.Context, productID string) error {
	if err := c.doRequest(ctx, http.MethodPost, "/favorites/"+url.PathEscape(productID), nil, nil); err != nil {
		return fmt.Errorf("client.AddFavorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a product from the caller's favorites.
func (c *Client) RemoveFavorite(ctx context.Context, productID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(productID), nil, nil); err != nil {
		return fmt.Errorf("client.RemoveFavorite: %w", err)
	}
	return nil
}

// ListFavorites returns the caller's favorite products.
func (c *Client) ListFavorites(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/favorites", &products); err != nil {
		return nil, fmt.Errorf("client.ListFavorites: %w", err)
	}
	return products, nil
}

// --- Credits ---

// GetCreditBalance returns the caller's credit balance.
func (c *Client) GetCreditBalance(ctx context.Context) (int, error) {
	var bal domain.CreditBalance
	if err := c.get(ctx, "/credits/balance", &bal); err != nil {
		return 0, fmt.Errorf("client.GetCreditBalance: %w", err)
	}
	return bal.Credits, nil
}

// ListCreditTransactions returns the caller's most recent credit transactions.
func (c *Client) ListCreditTransactions(ctx context.Context) ([]domain.CreditTransaction, error) {
	var txs []domain.CreditTransaction
	if err := c.get(ctx, "/credits/transactions", &txs); err != nil {
		return nil, fmt.Errorf("client.ListCreditTransactions: %w", err)
	}
	return txs, nil
}

// --- Admin ---

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// AddCredits grants credits to userID. Admin only.
func (c *Client) AddCredits(ctx context.Context, userID string, credits int) error {
	params := url.Values{}
	params.Set("credits", strconv.Itoa(credits))
	path := "/admin/users/" + url.PathEscape(userID) + "/credits?" + params.Encode()
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("client.AddCredits: %w", err)
	}
	return nil
}

// ListAdminShops returns shops in the given review state. Admin only.
func (c *Client) ListAdminShops(ctx context.Context, status string) ([]domain.AdminShop, error) {
	params := url.Values{}
	params.Set("status", status)
	var shops []domain.AdminShop
	if err := c.get(ctx, "/admin/shops?"+params.Encode(), &shops); err != nil {
		return nil, fmt.Errorf("client.ListAdminShops: %w", err)
	}
	return shops, nil
}

// ApproveShop approves a pending shop. Admin only.
func (c *Client) ApproveShop(ctx context.Context, shopID string) error {
	if err := c.post(ctx, "/admin/shops/"+url.PathEscape(shopID)+"/approve", nil, nil); err != nil {
		return fmt.Errorf("client.ApproveShop: %w", err)
	}
	return nil
}

// RejectShop rejects a pending shop. Admin only.
func (c *Client) RejectShop(ctx context.Context, shopID string) error {
	if err := c.post(ctx, "/admin/shops/"+url.PathEscape(shopID)+"/reject", nil, nil); err != nil {
		return fmt.Errorf("client.RejectShop: %w", err)
	}
	return nil
}

// AdminDashboard returns marketplace totals. Admin only.
func (c *Client) AdminDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "/admin/dashboard", &stats); err != nil {
		return nil, fmt.Errorf("client.AdminDashboard: %w", err)
	}
	return &stats, nil
}

// GetSettings returns the system settings. Admin only.
func (c *Client) GetSettings(ctx context.Context) (*domain.SystemSettings, error) {
	var st domain.SystemSettings
	if err := c.get(ctx, "/admin/settings", &st); err != nil {
		return nil, fmt.Errorf("client.GetSettings: %w", err)
	}
	return &st, nil
}

// UpdateSettings replaces the system settings. Admin only.
func (c *Client) UpdateSettings(ctx context.Context, st domain.SystemSettings) error {
	if err := c.post(ctx, "/admin/settings", st, nil); err != nil {
		return fmt.Errorf("client.UpdateSettings: %w", err)
	}
	return nil
}

// --- Orders ---

// CreateOrderRequest is the payload for placing a cash-on-delivery order.
type CreateOrderRequest struct {
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	DeliveryAddress string `json:"delivery_address"`
	PhoneNumber     string `json:"phone_number"`
	PaymentMethod   string `json:"payment_method"`
}

// CreateOrder places an order for the authenticated buyer.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("client.CreateOrder: quantity %d must be at least 1", req.Quantity)
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentCash
	}
	var o domain.Order
	if err := c.post(ctx, "/orders", req, &o); err != nil {
		return nil, fmt.Errorf("client.CreateOrder: %w", err)
	}
	return &o, nil
}

// ListOrders returns the caller's orders: purchases for a buyer, sales for a seller.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, "/orders", &orders); err != nil {
		return nil, fmt.Errorf("client.ListOrders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("client.UpdateOrderStatus: unknown status %q", status)
	}
	body := map[string]domain.OrderStatus{"status": status}
	if err := c.post(ctx, "/orders/"+url.PathEscape(orderID)+"/status", body, nil); err != nil {
		return fmt.Errorf("client.UpdateOrderStatus: %w", err)
	}
	return nil
}

func page(skip, limit int) url.Values {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))
	return params
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	return c.do(ctx, method, path, c.Token(), body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		// Only a rejected default token means the session is gone.
		if resp.StatusCode == http.StatusUnauthorized && token != "" && token == c.Token() {
			c.unauthorized(token)
		}
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) unauthorized(token string) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(token)
	}
}
