// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartLineRepository struct {
	mock.Mock
}

func (m *CartLineRepository) CreateLine(ctx context.Context, line *models.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *CartLineRepository) GetLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartLine, error) {
	args := m.Called(ctx, userID, productID)
	line, _ := args.Get(0).(*models.CartLine)
	return line, args.Error(1)
}

func (m *CartLineRepository) ListLines(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]*models.CartLine)
	return lines, args.Error(1)
}

func (m *CartLineRepository) UpdateLineQuantity(ctx context.Context, line *models.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *CartLineRepository) DeleteLines(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartLineRepository) ClearLines(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *ProductRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]*models.Category)
	return categories, args.Error(1)
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, page, size int, featuredOnly bool) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size, featuredOnly)
	products, _ := args.Get(0).([]*models.Product)
	return products, args.Int(1), args.Error(2)
}

func (m *ProductRepository) SetFeatured(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) ListCommentsByProduct(ctx context.Context, productID uuid.UUID) ([]*models.Comment, error) {
	args := m.Called(ctx, productID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

type CouponRepository struct {
	mock.Mock
}

func (m *CouponRepository) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *CouponRepository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	coupon, _ := args.Get(0).(*models.Coupon)
	return coupon, args.Error(1)
}

func (m *CouponRepository) CouponCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *CouponRepository) SetCouponActive(ctx context.Context, coupon *models.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

type SupportMessageRepository struct {
	mock.Mock
}

func (m *SupportMessageRepository) CreateMessage(ctx context.Context, message *models.SupportMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *SupportMessageRepository) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
	args := m.Called(ctx, id)
	message, _ := args.Get(0).(*models.SupportMessage)
	return message, args.Error(1)
}

func (m *SupportMessageRepository) ListMessages(ctx context.Context, page, size int, unreadOnly bool) ([]*models.SupportMessage, int, error) {
	args := m.Called(ctx, page, size, unreadOnly)
	messages, _ := args.Get(0).([]*models.SupportMessage)
	return messages, args.Int(1), args.Error(2)
}

func (m *SupportMessageRepository) MarkRead(ctx context.Context, message *models.SupportMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *SupportMessageRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type SubmissionLimiter struct {
	mock.Mock
}

func (m *SubmissionLimiter) Allow(ctx context.Context, sender string) (bool, time.Duration, error) {
	args := m.Called(ctx, sender)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}
