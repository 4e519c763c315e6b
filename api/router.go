// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package api assembles the REST boundary: routing plus the fasthttp server
// wrapper.
package api

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/tochemey/silo/api/handler"
)

// Handlers groups the route handlers wired into the router.
type Handlers struct {
	Product *apiHandler.ProductHandler
	Cart    *apiHandler.CartHandler
	Health  *apiHandler.HealthHandler
}

// NewRouter builds the route table.
func NewRouter(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/healthz", handlers.Health.Check)

	// Catalog routes
	r.GET("/api/v1/products", handlers.Product.GetProducts)
	r.POST("/api/v1/products", handlers.Product.CreateProduct)
	r.GET("/api/v1/products/{id}", handlers.Product.GetProduct)
	r.PUT("/api/v1/products/{id}", handlers.Product.UpdateProduct)
	r.GET("/api/v1/categories", handlers.Product.GetCategories)
	r.GET("/api/v1/categories/{category}/products", handlers.Product.GetCategoryProducts)
	r.DELETE("/api/v1/categories/{category}/products/{id}", handlers.Product.RemoveProduct)

	// Cart routes
	r.GET("/api/v1/cart/{userID}", handlers.Cart.GetCart)
	r.POST("/api/v1/cart/{userID}/items", handlers.Cart.AddItem)
	r.DELETE("/api/v1/cart/{userID}/items/{productID}", handlers.Cart.RemoveItem)
	r.DELETE("/api/v1/cart/{userID}", handlers.Cart.ClearCart)

	return r
}
