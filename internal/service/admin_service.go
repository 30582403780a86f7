package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultUsersPageSize = 10
	maxUsersPageSize     = 100
	statsDays            = 7
)

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type UserPage struct {
	Users      []repository.UserWithOrderCount
	Pagination Pagination
}

type DayStat struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type OrderStats struct {
	TotalOrders       int64           `json:"totalOrders"`
	PendingOrders     int64           `json:"pendingOrders"`
	ProcessingOrders  int64           `json:"processingOrders"`
	ShippedOrders     int64           `json:"shippedOrders"`
	DeliveredOrders   int64           `json:"deliveredOrders"`
	CancelledOrders   int64           `json:"cancelledOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	MonthTotal        decimal.Decimal `json:"monthTotal"`
	OrdersThisMonth   int64           `json:"ordersThisMonth"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	OrdersByDay       []DayStat       `json:"ordersByDay"`
}

type UserStats struct {
	TotalUsers     int64     `json:"totalUsers"`
	UsersThisMonth int64     `json:"usersThisMonth"`
	ActiveUsers    int64     `json:"activeUsers"`
	UsersLast7Days int64     `json:"usersLast7Days"`
	AdminCount     int64     `json:"adminCount"`
	RegularUsers   int64     `json:"regularUsers"`
	UserGrowth     []DayStat `json:"userGrowth"`
}

type PeriodTotal struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

type YearTotal struct {
	Year   int                 `json:"year"`
	Total  decimal.Decimal     `json:"total"`
	Count  int64               `json:"count"`
	Months map[int]PeriodTotal `json:"months"`
}

type AdminService struct {
	users  repository.UserRepo
	stats  repository.StatsRepo
	hasher PasswordHasher
	now    func() time.Time
	log    *zap.Logger
}

func NewAdminService(users repository.UserRepo, stats repository.StatsRepo, hasher PasswordHasher, log *zap.Logger) *AdminService {
	return &AdminService{users: users, stats: stats, hasher: hasher, now: time.Now, log: log}
}

// ListUsers pages through users, newest first. page starts at 1.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int, search string) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultUsersPageSize
	}
	if limit > maxUsersPageSize {
		limit = maxUsersPageSize
	}

	users, total, err := s.users.List(ctx, repository.UserListFilter{
		Search: strings.TrimSpace(search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &UserPage{
		Users:      users,
		Pagination: Pagination{Total: total, Page: page, Limit: limit, Pages: pages},
	}, nil
}

func (s *AdminService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) (*models.User, error) {
	if userID == uuid.Nil || newPassword == "" {
		return nil, newValidation("userId and newPassword are required")
	}
	if len(newPassword) < minPasswordLen {
		return nil, newValidation("password too short", FieldError{Field: "newPassword", Message: "at least 6 characters"})
	}
	if len(newPassword) > maxPasswordLen {
		return nil, newValidation("password too long", FieldError{Field: "newPassword", Message: "at most 72 bytes"})
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	s.log.Info("password reset by admin", zap.String("user_id", userID.String()))
	return s.users.GetByID(ctx, userID)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// lastDays returns one entry per day ending today, filling gaps with zero.
func lastDays(today time.Time, n int, counts []repository.DayCount) []DayStat {
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}
	out := make([]DayStat, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, DayStat{Date: d, Count: byDay[d]})
	}
	return out
}

// OrderStats summarises orders. Revenue figures leave cancelled orders out.
func (s *AdminService) OrderStats(ctx context.Context) (*OrderStats, error) {
	now := s.now().UTC()
	today := dayStart(now)

	counts, err := s.stats.OrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	st := &OrderStats{}
	for _, c := range counts {
		st.TotalOrders += c.Count
		switch c.Status {
		case models.OrderStatusPending:
			st.PendingOrders = c.Count
		case models.OrderStatusProcessing:
			st.ProcessingOrders = c.Count
		case models.OrderStatusShipped:
			st.ShippedOrders = c.Count
		case models.OrderStatusDelivered:
			st.DeliveredOrders = c.Count
		case models.OrderStatusCancelled:
			st.CancelledOrders = c.Count
		}
	}

	if st.TotalRevenue, err = s.stats.Revenue(ctx, time.Time{}); err != nil {
		return nil, err
	}
	if st.MonthTotal, err = s.stats.Revenue(ctx, monthStart(now)); err != nil {
		return nil, err
	}
	if st.OrdersThisMonth, err = s.stats.CountOrdersSince(ctx, monthStart(now)); err != nil {
		return nil, err
	}

	st.AverageOrderValue = decimal.Zero
	if billable := st.TotalOrders - st.CancelledOrders; billable > 0 {
		st.AverageOrderValue = st.TotalRevenue.Div(decimal.NewFromInt(billable)).Round(2)
	}

	perDay, err := s.stats.OrdersPerDay(ctx, today.AddDate(0, 0, -(statsDays-1)))
	if err != nil {
		return nil, err
	}
	st.OrdersByDay = lastDays(today, statsDays, perDay)
	return st, nil
}

func (s *AdminService) UserStats(ctx context.Context) (*UserStats, error) {
	now := s.now().UTC()
	today := dayStart(now)
	st := &UserStats{}
	var err error

	if st.TotalUsers, err = s.stats.CountUsers(ctx, time.Time{}); err != nil {
		return nil, err
	}
	if st.UsersThisMonth, err = s.stats.CountUsers(ctx, monthStart(now)); err != nil {
		return nil, err
	}
	if st.UsersLast7Days, err = s.stats.CountUsers(ctx, now.AddDate(0, 0, -statsDays)); err != nil {
		return nil, err
	}
	if st.AdminCount, err = s.stats.CountUsersByRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	st.RegularUsers = st.TotalUsers - st.AdminCount
	if st.ActiveUsers, err = s.stats.CountUsersWithOrders(ctx); err != nil {
		return nil, err
	}

	perDay, err := s.stats.UsersPerDay(ctx, today.AddDate(0, 0, -(statsDays-1)))
	if err != nil {
		return nil, err
	}
	st.UserGrowth = lastDays(today, statsDays, perDay)
	return st, nil
}

// YearlyDelivered groups delivered orders by year and month, newest year first.
func (s *AdminService) YearlyDelivered(ctx context.Context) ([]YearTotal, error) {
	rows, err := s.stats.DeliveredByMonth(ctx)
	if err != nil {
		return nil, err
	}

	byYear := map[int]*YearTotal{}
	for _, r := range rows {
		y, ok := byYear[r.Year]
		if !ok {
			y = &YearTotal{Year: r.Year, Total: decimal.Zero, Months: map[int]PeriodTotal{}}
			byYear[r.Year] = y
		}
		y.Total = y.Total.Add(r.Total)
		y.Count += r.Count
		m := y.Months[r.Month]
		m.Total = m.Total.Add(r.Total)
		m.Count += r.Count
		y.Months[r.Month] = m
	}

	out := make([]YearTotal, 0, len(byYear))
	for _, y := range byYear {
		out = append(out, *y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}
