package mongodb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpdateDocument(t *testing.T) {
	title := "Mate"
	price := 9.5
	stock := 0
	var nilThumbs []string

	tests := []struct {
		name string
		upd  domain.ProductUpdate
		want bson.D
	}{
		{
			name: "empty update",
			upd:  domain.ProductUpdate{},
			want: bson.D{},
		},
		{
			name: "only supplied fields in declaration order",
			upd:  domain.ProductUpdate{Stock: &stock, Title: &title, Price: &price},
			want: bson.D{
				{Key: "title", Value: "Mate"},
				{Key: "price", Value: 9.5},
				{Key: "stock", Value: 0},
			},
		},
		{
			name: "null thumbnails become empty list",
			upd:  domain.ProductUpdate{Thumbnails: &nilThumbs},
			want: bson.D{{Key: "thumbnails", Value: []string{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, updateDocument(tt.upd)); diff != "" {
				t.Errorf("updateDocument mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
