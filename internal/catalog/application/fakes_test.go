package application_test

import (
	"context"
	"sync"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryProductRepo struct {
	mu       sync.Mutex
	products []*domain.Product
}

func (r *memoryProductRepo) List(_ context.Context, limit int64) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.products))
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*domain.Product, 0, n)
	for _, p := range r.products[:n] {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.index(id); i >= 0 {
		cp := *r.products[i]
		return &cp, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *memoryProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = primitive.NewObjectID()
	cp := *p
	r.products = append(r.products, &cp)
	return nil
}

func (r *memoryProductRepo) Update(_ context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}
	upd.Apply(r.products[i])
	cp := *r.products[i]
	return &cp, nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *memoryProductRepo) index(id string) int {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1
	}
	for i, p := range r.products {
		if p.ID == oid {
			return i
		}
	}
	return -1
}

type publishedEvent struct {
	topic string
	key   string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.topic)
	}
	return out
}
