// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) AddItem(ctx context.Context, userID uuid.UUID, attrs models.Attributes) (*models.CartLine, error) {
	args := m.Called(ctx, userID, attrs)
	line, _ := args.Get(0).(*models.CartLine)
	return line, args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]*models.CartLine)
	return lines, args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req *models.UpdateQuantityRequest) (*models.CartLine, error) {
	args := m.Called(ctx, userID, productID, req)
	line, _ := args.Get(0).(*models.CartLine)
	return line, args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) CreateCategory(ctx context.Context, attrs models.Attributes) (*models.Category, error) {
	args := m.Called(ctx, attrs)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]*models.Category)
	return categories, args.Error(1)
}

func (m *CatalogService) CreateProduct(ctx context.Context, attrs models.Attributes) (*models.Product, error) {
	args := m.Called(ctx, attrs)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *CatalogService) ListProducts(ctx context.Context, page, size int, featuredOnly bool) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size, featuredOnly)
	products, _ := args.Get(0).([]*models.Product)
	return products, args.Int(1), args.Error(2)
}

func (m *CatalogService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Product, error) {
	args := m.Called(ctx, id, featured)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CatalogService) AddComment(ctx context.Context, userID, productID uuid.UUID, attrs models.Attributes) (*models.Comment, error) {
	args := m.Called(ctx, userID, productID, attrs)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *CatalogService) ListComments(ctx context.Context, productID uuid.UUID) ([]*models.Comment, error) {
	args := m.Called(ctx, productID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

type CouponService struct {
	mock.Mock
}

func (m *CouponService) CreateCoupon(ctx context.Context, attrs models.Attributes) (*models.Coupon, error) {
	args := m.Called(ctx, attrs)
	coupon, _ := args.Get(0).(*models.Coupon)
	return coupon, args.Error(1)
}

func (m *CouponService) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	coupon, _ := args.Get(0).(*models.Coupon)
	return coupon, args.Error(1)
}

func (m *CouponService) RedeemCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	coupon, _ := args.Get(0).(*models.Coupon)
	return coupon, args.Error(1)
}

func (m *CouponService) DeactivateCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	coupon, _ := args.Get(0).(*models.Coupon)
	return coupon, args.Error(1)
}

type SupportService struct {
	mock.Mock
}

func (m *SupportService) SubmitMessage(ctx context.Context, userID *uuid.UUID, attrs models.Attributes) (*models.SupportMessage, error) {
	args := m.Called(ctx, userID, attrs)
	message, _ := args.Get(0).(*models.SupportMessage)
	return message, args.Error(1)
}

func (m *SupportService) ListMessages(ctx context.Context, page, size int, unreadOnly bool) ([]*models.SupportMessage, int, error) {
	args := m.Called(ctx, page, size, unreadOnly)
	messages, _ := args.Get(0).([]*models.SupportMessage)
	return messages, args.Int(1), args.Error(2)
}

func (m *SupportService) MarkRead(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
	args := m.Called(ctx, id)
	message, _ := args.Get(0).(*models.SupportMessage)
	return message, args.Error(1)
}

func (m *SupportService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
