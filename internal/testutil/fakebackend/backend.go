// Package fakebackend is an in-memory inventory backend used by tests. It follows the REST
// contract the console consumes, including the restock rule and error payloads.
package fakebackend

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

// Item is the stored representation; ids are integers like the real service.
type Item struct {
	ID           int    `json:"id"`
	Name         string `json:"inventory_name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	Condition    string `json:"condition"`
	RestockLevel int    `json:"restock_level"`
}

type itemPayload struct {
	Name         *string `json:"inventory_name"`
	Category     *string `json:"category"`
	Quantity     *int    `json:"quantity"`
	Condition    *string `json:"condition"`
	RestockLevel *int    `json:"restock_level"`
}

type failure struct {
	status int
	body   string
}

// Request is what the backend saw for one call.
type Request struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Body        string
}

// Backend is safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	items    map[int]Item
	nextID   int
	failures map[string]failure
	requests []Request
	engine   *gin.Engine
}

var validConditions = map[string]bool{"NEW": true, "OPEN": true, "OPENED": true, "USED": true}

// New builds an empty backend.
func New() *Backend {
	gin.SetMode(gin.TestMode)

	b := &Backend{
		items:    make(map[int]Item),
		nextID:   1,
		failures: make(map[string]failure),
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(b.record, b.injectFailure)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "Healthy"})
	})
	r.GET("/api/inventory", b.list)
	r.POST("/api/inventory", b.create)
	r.GET("/api/inventory/:id", b.get)
	r.PUT("/api/inventory/:id", b.update)
	r.DELETE("/api/inventory/:id", b.remove)
	r.PUT("/api/inventory/:id/restock", b.restock)

	b.engine = r
	return b
}

// ServeHTTP lets the backend be mounted in httptest.NewServer.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.engine.ServeHTTP(w, r)
}

// Seed stores items directly and returns them with assigned ids.
func (b *Backend) Seed(items ...Item) []Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Item, 0, len(items))
	for _, item := range items {
		item.ID = b.nextID
		b.nextID++
		b.items[item.ID] = item
		out = append(out, item)
	}
	return out
}

// Len reports the number of stored items.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Get returns a stored item.
func (b *Backend) Get(id int) (Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items[id]
	return item, ok
}

// FailNext makes the next request with method answer status with a raw body.
func (b *Backend) FailNext(method string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method] = failure{status: status, body: body}
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) record(c *gin.Context) {
	body, _ := c.GetRawData()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		RawQuery:    c.Request.URL.RawQuery,
		ContentType: c.GetHeader("Content-Type"),
		Body:        string(body),
	})
	b.mu.Unlock()

	c.Next()
}

func (b *Backend) injectFailure(c *gin.Context) {
	b.mu.Lock()
	f, ok := b.failures[c.Request.Method]
	if ok {
		delete(b.failures, c.Request.Method)
	}
	b.mu.Unlock()

	if ok {
		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
		return
	}
	c.Next()
}

func notFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Item with id '%s' was not found.", id)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

func (b *Backend) lookup(c *gin.Context) (Item, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		notFound(c, raw)
		return Item{}, false
	}
	b.mu.Lock()
	item, ok := b.items[id]
	b.mu.Unlock()
	if !ok {
		notFound(c, raw)
	}
	return item, ok
}

func decodeItem(c *gin.Context) (Item, bool) {
	var payload itemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "Invalid Inventory: body of request contained bad or no data "+err.Error())
		return Item{}, false
	}

	switch {
	case payload.Name == nil:
		badRequest(c, "Invalid Inventory: missing inventory_name")
	case payload.Category == nil:
		badRequest(c, "Invalid Inventory: missing category")
	case payload.Quantity == nil:
		badRequest(c, "Invalid type for int [quantity]")
	case payload.Condition == nil || !validConditions[*payload.Condition]:
		badRequest(c, "Invalid Inventory: bad condition")
	case payload.RestockLevel == nil:
		badRequest(c, "Invalid type for int [restock_level]")
	default:
		return Item{
			Name:         *payload.Name,
			Category:     *payload.Category,
			Quantity:     *payload.Quantity,
			Condition:    *payload.Condition,
			RestockLevel: *payload.RestockLevel,
		}, true
	}
	return Item{}, false
}

func (b *Backend) list(c *gin.Context) {
	matchers := []func(Item) bool{}
	if v, ok := c.GetQuery("name"); ok {
		matchers = append(matchers, func(i Item) bool { return i.Name == v })
	}
	if v, ok := c.GetQuery("category"); ok {
		matchers = append(matchers, func(i Item) bool { return i.Category == v })
	}
	if v, ok := c.GetQuery("condition"); ok {
		if !validConditions[v] {
			badRequest(c, "condition: The value '"+v+"' is not a valid choice for 'condition'.")
			return
		}
		matchers = append(matchers, func(i Item) bool { return i.Condition == v })
	}
	for _, key := range []string{"quantity", "restock_level"} {
		v, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, key+": invalid literal for int() with base 10: '"+v+"'")
			return
		}
		if key == "quantity" {
			matchers = append(matchers, func(i Item) bool { return i.Quantity == n })
		} else {
			matchers = append(matchers, func(i Item) bool { return i.RestockLevel == n })
		}
	}

	b.mu.Lock()
	out := make([]Item, 0, len(b.items))
	for _, item := range b.items {
		keep := true
		for _, m := range matchers {
			if !m(item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (b *Backend) create(c *gin.Context) {
	item, ok := decodeItem(c)
	if !ok {
		return
	}
	stored := b.Seed(item)[0]
	c.Header("Location", fmt.Sprintf("/api/inventory/%d", stored.ID))
	c.JSON(http.StatusCreated, stored)
}

func (b *Backend) get(c *gin.Context) {
	item, ok := b.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

func (b *Backend) update(c *gin.Context) {
	existing, ok := b.lookup(c)
	if !ok {
		return
	}
	item, ok := decodeItem(c)
	if !ok {
		return
	}
	item.ID = existing.ID

	b.mu.Lock()
	b.items[item.ID] = item
	b.mu.Unlock()

	c.JSON(http.StatusOK, item)
}

func (b *Backend) remove(c *gin.Context) {
	if id, err := strconv.Atoi(c.Param("id")); err == nil {
		b.mu.Lock()
		delete(b.items, id)
		b.mu.Unlock()
	}
	c.Status(http.StatusNoContent)
}

func (b *Backend) restock(c *gin.Context) {
	item, ok := b.lookup(c)
	if !ok {
		return
	}
	if item.Quantity > item.RestockLevel {
		badRequest(c, fmt.Sprintf("No need to restock: quantity [%d] greater than restock level [%d]", item.Quantity, item.RestockLevel))
		return
	}

	item.Quantity = 2*item.RestockLevel - item.Quantity

	b.mu.Lock()
	b.items[item.ID] = item
	b.mu.Unlock()

	c.JSON(http.StatusOK, item)
}
