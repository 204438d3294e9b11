package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item map[string]any

func saleBody(buyer, seller int64, items ...item) map[string]any {
	return map[string]any{"buyerId": buyer, "sellerId": seller, "items": items}
}

type saleResponse struct {
	ID       int64           `json:"salesId"`
	Amount   decimal.Decimal `json:"salesAmount"`
	BuyerID  int64           `json:"buyerId"`
	SellerID int64           `json:"sellerId"`
	Items    []struct {
		ProductID int64           `json:"productId"`
		Quantity  int             `json:"productQuantity"`
		UnitPrice decimal.Decimal `json:"unitPrice"`
		Subtotal  decimal.Decimal `json:"subtotal"`
	} `json:"items"`
}

func TestCreateSale(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "10.00", 10)

	resp := a.do(t, "POST", "/api/sales", a.token(t, buyerID),
		saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 2}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale saleResponse
	decode(t, resp, &sale)
	assert.NotZero(t, sale.ID)
	assert.Equal(t, "20.00", sale.Amount.StringFixed(2))
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.Equal(t, "20.00", sale.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, 8, a.stock(t, pid))
	assert.True(t, a.logged("sale.commit"))
}

func TestCreateSaleWithPriceOverride(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "10.00", 10)

	resp := a.do(t, "POST", "/api/sales", a.token(t, sellerID),
		saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 3, "unitPrice": "7.50"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale saleResponse
	decode(t, resp, &sale)
	assert.Equal(t, "22.50", sale.Amount.StringFixed(2))
	assert.Equal(t, "7.50", sale.Items[0].UnitPrice.StringFixed(2))
}

func TestCreateSaleZeroPriceUsesCatalogPrice(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "10.00", 10)

	for _, zero := range []any{"0", 0, "0.00"} {
		resp := a.do(t, "POST", "/api/sales", a.token(t, buyerID),
			saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 2, "unitPrice": zero}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var sale saleResponse
		decode(t, resp, &sale)
		require.Len(t, sale.Items, 1)
		assert.Equal(t, "10.00", sale.Items[0].UnitPrice.StringFixed(2), "unitPrice %v", zero)
		assert.Equal(t, "20.00", sale.Amount.StringFixed(2), "unitPrice %v", zero)
	}
	assert.Equal(t, 4, a.stock(t, pid))
}

func TestCreateSaleErrorMapping(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "5.00", 5)
	admin := a.token(t, adminID)

	cases := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"empty", saleBody(buyerID, sellerID), http.StatusBadRequest, "empty_sale"},
		{"unknown buyer", saleBody(999, sellerID, item{"productId": pid, "productQuantity": 1}), http.StatusNotFound, "party_not_found"},
		{"self trade", saleBody(buyerID, buyerID, item{"productId": pid, "productQuantity": 1}), http.StatusBadRequest, "self_trade"},
		{"seller as buyer", saleBody(sellerID, adminID, item{"productId": pid, "productQuantity": 1}), http.StatusBadRequest, "invalid_buyer_role"},
		{"unknown seller", saleBody(buyerID, sellerID+100, item{"productId": pid, "productQuantity": 1}), http.StatusNotFound, "party_not_found"},
		{"zero quantity", saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 0}), http.StatusBadRequest, "invalid_quantity"},
		{"negative price", saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 1, "unitPrice": "-1"}), http.StatusBadRequest, "invalid_unit_price"},
		{"unknown product", saleBody(buyerID, sellerID, item{"productId": pid + 50, "productQuantity": 1}), http.StatusNotFound, "product_not_found"},
		{"over stock", saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 6}), http.StatusConflict, "insufficient_stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := a.do(t, "POST", "/api/sales", admin, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			var body map[string]any
			decode(t, resp, &body)
			assert.Equal(t, tc.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Equal(t, 5, a.stock(t, pid))

	var n int
	require.NoError(t, a.db.Get(&n, `SELECT COUNT(*) FROM sales`))
	assert.Zero(t, n)
	assert.True(t, a.logged("sale.commit.reject"))
}

func TestCreateSaleReportsProductID(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "5.00", 1)

	resp := a.do(t, "POST", "/api/sales", a.token(t, buyerID),
		saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 2}))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	assert.EqualValues(t, pid, body["productId"])
}

func TestCreateSaleRequiresParty(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "5.00", 5)

	resp := a.do(t, "POST", "/api/users/register", "", map[string]any{
		"username": "outsider", "firstName": "Out", "lastName": "Sider",
		"userEmail": "out@sales.test", "password": "Str0ng!pass", "roleId": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		ID int64 `json:"userId"`
	}
	decode(t, resp, &out)

	resp = a.do(t, "POST", "/api/sales", a.token(t, out.ID),
		saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 1}))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 5, a.stock(t, pid))
	assert.True(t, a.logged("access.denied.sale"))
}

func TestCreateSaleRejectsMalformedBody(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(t, "POST", "/api/sales", a.token(t, buyerID), "not an object")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAndGetSales(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "3.00", 20)
	buyer := a.token(t, buyerID)

	ids := make([]int64, 0, 3)
	for q := 1; q <= 3; q++ {
		resp := a.do(t, "POST", "/api/sales", buyer, saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": q}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var s saleResponse
		decode(t, resp, &s)
		ids = append(ids, s.ID)
	}

	resp := a.do(t, "GET", "/api/sales", a.token(t, adminID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all map[string]saleResponse
	decode(t, resp, &all)
	require.Len(t, all, 3)
	for i, id := range ids {
		s, ok := all[fmt.Sprint(id)]
		require.True(t, ok, "sale %d missing", id)
		require.Len(t, s.Items, 1)
		assert.Equal(t, i+1, s.Items[0].Quantity)
	}

	resp = a.do(t, "GET", fmt.Sprintf("/api/sales/%d", ids[0]), buyer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var one saleResponse
	decode(t, resp, &one)
	assert.Equal(t, ids[0], one.ID)
	assert.Equal(t, "3.00", one.Amount.StringFixed(2))

	resp = a.do(t, "GET", "/api/sales/9999", buyer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = a.do(t, "GET", "/api/sales/abc", buyer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSaleHiddenFromNonParty(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "3.00", 20)
	resp := a.do(t, "POST", "/api/sales", a.token(t, buyerID), saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 1}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var s saleResponse
	decode(t, resp, &s)

	resp = a.do(t, "POST", "/api/users/register", "", map[string]any{
		"username": "nosy", "firstName": "No", "lastName": "Sy",
		"userEmail": "nosy@sales.test", "password": "Str0ng!pass", "roleId": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var nosy struct {
		ID int64 `json:"userId"`
	}
	decode(t, resp, &nosy)

	resp = a.do(t, "GET", fmt.Sprintf("/api/sales/%d", s.ID), a.token(t, nosy.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = a.do(t, "GET", fmt.Sprintf("/api/sales/%d", s.ID), a.token(t, adminID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminSalesPage(t *testing.T) {
	a := newTestApp(t)
	pid := a.product(t, "12.50", 20)
	resp := a.do(t, "POST", "/api/sales", a.token(t, buyerID), saleBody(buyerID, sellerID, item{"productId": pid, "productQuantity": 2}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(t, "GET", "/admin/sales", a.token(t, adminID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	page := bodyString(t, resp)
	assert.Contains(t, page, "Signed in as admin")
	assert.Contains(t, page, "25.00")
	assert.Contains(t, page, "12.50")
}
