package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"suvix_backend/internal/config"
	"suvix_backend/internal/models"
	"suvix_backend/internal/payments"
	"suvix_backend/internal/repositories"
)

// The service tests run against in-memory repositories so the business
// rules can be exercised without a database.

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	cfg.Platform.FeePercent = 5
	cfg.Platform.DownloadTokenTTL = 30
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
	os.Exit(m.Run())
}

// ---------------- users ----------------

type memUserRepo struct {
	users     map[string]*models.User
	refreshed []string
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) RefreshRatingAggregates(editorID string) error {
	r.refreshed = append(r.refreshed, editorID)
	return nil
}

// ---------------- orders ----------------

type memOrderRepo struct {
	orders map[string]*models.Order
}

func newMemOrderRepo(orders ...*models.Order) *memOrderRepo {
	r := &memOrderRepo{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *memOrderRepo) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", len(r.orders)+1)
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) FindByID(id string) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	return o, nil
}

func (r *memOrderRepo) FindByParticipant(userID string, role models.UserRole, page, pageSize int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.orders {
		if (role == models.UserRoleEditor && o.EditorID == userID) ||
			(role != models.UserRoleEditor && o.ClientID == userID) {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) Update(order *models.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return repositories.ErrOrderNotFound
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) WithTx(fn func(txRepo repositories.OrderRepository) error) error {
	return fn(r)
}

func (r *memOrderRepo) snapshot() map[string]models.Order {
	out := make(map[string]models.Order, len(r.orders))
	for k, v := range r.orders {
		out[k] = *v
	}
	return out
}

// restore writes the snapshot back through the existing pointers so
// callers holding an order see the rolled-back values.
func (r *memOrderRepo) restore(snap map[string]models.Order) {
	for k := range r.orders {
		if _, ok := snap[k]; !ok {
			delete(r.orders, k)
		}
	}
	for k, v := range snap {
		if existing, ok := r.orders[k]; ok {
			*existing = v
		} else {
			v := v
			r.orders[k] = &v
		}
	}
}

// ---------------- payment intents ----------------

type memPaymentRepo struct {
	intents []*models.PaymentIntent
	// statusLog records the status carried by every Update call, so
	// tests can assert on the intent's transition sequence.
	statusLog []models.IntentStatus
}

func (r *memPaymentRepo) Create(intent *models.PaymentIntent) error {
	if intent.ID == "" {
		intent.ID = fmt.Sprintf("intent-%d", len(r.intents)+1)
	}
	intent.CreatedAt = time.Now()
	r.intents = append(r.intents, intent)
	return nil
}

func (r *memPaymentRepo) FindByID(id string) (*models.PaymentIntent, error) {
	for _, in := range r.intents {
		if in.ID == id {
			return in, nil
		}
	}
	return nil, repositories.ErrPaymentIntentNotFound
}

func (r *memPaymentRepo) FindByGatewayOrderID(gatewayOrderID string) (*models.PaymentIntent, error) {
	for _, in := range r.intents {
		if in.GatewayOrderID == gatewayOrderID {
			return in, nil
		}
	}
	return nil, repositories.ErrPaymentIntentNotFound
}

func (r *memPaymentRepo) FindLiveByOrder(orderID string) (*models.PaymentIntent, error) {
	for i := len(r.intents) - 1; i >= 0; i-- {
		if r.intents[i].OrderID == orderID && r.intents[i].Live() {
			return r.intents[i], nil
		}
	}
	return nil, repositories.ErrPaymentIntentNotFound
}

func (r *memPaymentRepo) FindLatestByOrder(orderID string) (*models.PaymentIntent, error) {
	for i := len(r.intents) - 1; i >= 0; i-- {
		if r.intents[i].OrderID == orderID {
			return r.intents[i], nil
		}
	}
	return nil, repositories.ErrPaymentIntentNotFound
}

func (r *memPaymentRepo) Update(intent *models.PaymentIntent) error {
	for i, in := range r.intents {
		if in.ID == intent.ID {
			r.intents[i] = intent
			r.statusLog = append(r.statusLog, intent.Status)
			return nil
		}
	}
	return repositories.ErrPaymentIntentNotFound
}

func (r *memPaymentRepo) snapshot() []models.PaymentIntent {
	out := make([]models.PaymentIntent, len(r.intents))
	for i, in := range r.intents {
		out[i] = *in
	}
	return out
}

func (r *memPaymentRepo) restore(snap []models.PaymentIntent) {
	intents := make([]*models.PaymentIntent, len(snap))
	for i := range snap {
		v := snap[i]
		intents[i] = &v
	}
	r.intents = intents
}

// memTransactor snapshots both stores and rolls them back when the
// closure fails or the configured commit error fires, mimicking a real
// transaction boundary.
type memTransactor struct {
	orders    *memOrderRepo
	payments  *memPaymentRepo
	commitErr error
}

func (t *memTransactor) WithTx(fn func(repos repositories.TxRepos) error) error {
	ordersBefore := t.orders.snapshot()
	paymentsBefore := t.payments.snapshot()

	err := fn(repositories.TxRepos{Orders: t.orders, Payments: t.payments})
	if err == nil {
		err = t.commitErr
	}
	if err != nil {
		t.orders.restore(ordersBefore)
		t.payments.restore(paymentsBefore)
		return err
	}
	return nil
}

// ---------------- notifications ----------------

type memNotificationRepo struct {
	notifications []*models.Notification
}

func (r *memNotificationRepo) Create(n *models.Notification) error {
	if n.ID == "" {
		n.ID = fmt.Sprintf("notif-%d", len(r.notifications)+1)
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *memNotificationRepo) FindByID(id string) (*models.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *memNotificationRepo) FindByUser(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		if criteria.Type != "" && n.Type != criteria.Type {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) MarkAsRead(notificationID, userID string) error {
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *memNotificationRepo) MarkAllAsRead(userID string) error {
	now := time.Now()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *memNotificationRepo) UnreadCount(userID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// byType returns the user's notifications of one type, oldest first.
func (r *memNotificationRepo) byType(userID, notType string) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID && n.Type == notType {
			out = append(out, n)
		}
	}
	return out
}

// ---------------- ratings ----------------

type memRatingRepo struct {
	ratings []*models.Rating
}

func (r *memRatingRepo) Create(rating *models.Rating) error {
	exists, _ := r.ExistsForOrderAndReviewer(rating.OrderID, rating.ReviewerID)
	if exists {
		return repositories.ErrRatingAlreadyExists
	}
	if rating.ID == "" {
		rating.ID = fmt.Sprintf("rating-%d", len(r.ratings)+1)
	}
	rating.CreatedAt = time.Now()
	r.ratings = append(r.ratings, rating)
	return nil
}

func (r *memRatingRepo) FindByID(id string) (*models.Rating, error) {
	for _, rt := range r.ratings {
		if rt.ID == id {
			return rt, nil
		}
	}
	return nil, repositories.ErrRatingNotFound
}

func (r *memRatingRepo) FindByOrderAndReviewer(orderID, reviewerID string) (*models.Rating, error) {
	for _, rt := range r.ratings {
		if rt.OrderID == orderID && rt.ReviewerID == reviewerID {
			return rt, nil
		}
	}
	return nil, repositories.ErrRatingNotFound
}

func (r *memRatingRepo) ExistsForOrderAndReviewer(orderID, reviewerID string) (bool, error) {
	_, err := r.FindByOrderAndReviewer(orderID, reviewerID)
	return err == nil, nil
}

func (r *memRatingRepo) FindByEditor(editorID string, page, pageSize int) ([]models.Rating, int64, error) {
	var out []models.Rating
	for _, rt := range r.ratings {
		if rt.EditorID == editorID {
			out = append(out, *rt)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRatingRepo) Update(rating *models.Rating) error {
	for i, rt := range r.ratings {
		if rt.ID == rating.ID {
			r.ratings[i] = rating
			return nil
		}
	}
	return repositories.ErrRatingNotFound
}

func (r *memRatingRepo) GetEditorStats(editorID string) (*repositories.EditorRatingStats, error) {
	stats := &repositories.EditorRatingStats{RatingCounts: make(map[int]int64)}
	var sumOverall, sumQuality, sumComm, sumSpeed int
	for _, rt := range r.ratings {
		if rt.EditorID != editorID {
			continue
		}
		stats.TotalRatings++
		stats.RatingCounts[rt.Overall]++
		sumOverall += rt.Overall
		sumQuality += rt.Quality
		sumComm += rt.Communication
		sumSpeed += rt.DeliverySpeed
	}
	if stats.TotalRatings > 0 {
		n := float64(stats.TotalRatings)
		stats.AverageOverall = float64(sumOverall) / n
		stats.AverageQuality = float64(sumQuality) / n
		stats.AverageCommunication = float64(sumComm) / n
		stats.AverageDeliverySpeed = float64(sumSpeed) / n
	}
	return stats, nil
}

// ---------------- kyc ----------------

type memKYCRepo struct {
	records map[string]*models.KYCRecord // by user id
}

func newMemKYCRepo(records ...*models.KYCRecord) *memKYCRepo {
	r := &memKYCRepo{records: make(map[string]*models.KYCRecord)}
	for _, rec := range records {
		r.records[rec.UserID] = rec
	}
	return r
}

func (r *memKYCRepo) Upsert(record *models.KYCRecord) error {
	if existing, ok := r.records[record.UserID]; ok {
		if existing.Status != models.KYCStatusRejected {
			return gorm.ErrDuplicatedKey
		}
		record.ID = existing.ID
	}
	if record.ID == "" {
		record.ID = fmt.Sprintf("kyc-%d", len(r.records)+1)
	}
	record.Status = models.KYCStatusPending
	record.RejectionReason = ""
	r.records[record.UserID] = record
	return nil
}

func (r *memKYCRepo) FindByUser(userID string) (*models.KYCRecord, error) {
	rec, ok := r.records[userID]
	if !ok {
		return nil, repositories.ErrKYCNotFound
	}
	return rec, nil
}

func (r *memKYCRepo) FindPending(page, pageSize int) ([]models.KYCRecord, int64, error) {
	var out []models.KYCRecord
	for _, rec := range r.records {
		if rec.Status == models.KYCStatusPending {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memKYCRepo) Update(record *models.KYCRecord) error {
	r.records[record.UserID] = record
	return nil
}

// ---------------- gateway ----------------

type fakeGateway struct {
	createCalls int
	verifyCalls int
	failCreate  bool
	// validSig is the one payment signature VerifyPaymentSignature
	// accepts; validHook likewise for webhooks.
	validSig  string
	validHook string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req payments.OrderRequest) (*payments.GatewayOrder, error) {
	if g.failCreate {
		return nil, fmt.Errorf("gateway unreachable")
	}
	g.createCalls++
	return &payments.GatewayOrder{
		ID:       fmt.Sprintf("order_gw%d", g.createCalls),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	g.verifyCalls++
	return g.validSig != "" && signature == g.validSig
}

func (g *fakeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return g.validHook != "" && signature == g.validHook
}

func (g *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

func (g *fakeGateway) Currency() string {
	return "INR"
}

// ---------------- mail ----------------

type memMailer struct {
	sent []string // "to: subject"
}

func (m *memMailer) Send(to, subject, htmlBody string) error {
	m.sent = append(m.sent, to+": "+subject)
	return nil
}
