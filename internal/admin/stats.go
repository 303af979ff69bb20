package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

// DashboardStats is the back-office summary.
type DashboardStats struct {
	TotalUsers     int64                        `json:"total_users"`
	TotalProducts  int64                        `json:"total_products"`
	TotalOrders    int64                        `json:"total_orders"`
	OrdersByStatus map[enums.OrderStatus]int64  `json:"orders_by_status"`
	TotalRevenue   decimal.Decimal              `json:"total_revenue"`
}

type userCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type productCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type orderAggregator interface {
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
}

// StatsService aggregates dashboard numbers across domains.
type StatsService struct {
	users    userCounter
	products productCounter
	orders   orderAggregator
}

// NewStatsService constructs the dashboard aggregator.
func NewStatsService(users userCounter, products productCounter, orders orderAggregator) (*StatsService, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &StatsService{users: users, products: products, orders: orders}, nil
}

// Dashboard collects the counts and revenue for the admin landing page.
// Revenue excludes cancelled orders.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	userCount, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	productCount, err := s.products.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	revenue, err := s.orders.SumRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}

	var totalOrders int64
	for _, count := range byStatus {
		totalOrders += count
	}

	return &DashboardStats{
		TotalUsers:     userCount,
		TotalProducts:  productCount,
		TotalOrders:    totalOrders,
		OrdersByStatus: byStatus,
		TotalRevenue:   revenue,
	}, nil
}
