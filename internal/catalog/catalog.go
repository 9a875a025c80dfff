// Package catalog runs ad-hoc queries against the denormalized product
// catalog in the document store.
package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens and verifies a client for the given MongoDB URI.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// Catalog wraps the products collection.
type Catalog struct {
	products *mongo.Collection
}

// New returns a Catalog over the given database's products collection.
func New(db *mongo.Database) *Catalog {
	return &Catalog{products: db.Collection("products")}
}

// ProductSummary is the projection returned by CheapElectronics.
type ProductSummary struct {
	Name  string  `bson:"name"`
	Price float64 `bson:"price"`
	Stock int     `bson:"stock"`
}

// CheapElectronics lists Electronics products priced under maxPrice.
func (c *Catalog) CheapElectronics(ctx context.Context, maxPrice float64) ([]ProductSummary, error) {
	filter := bson.D{
		{Key: "category", Value: "Electronics"},
		{Key: "price", Value: bson.D{{Key: "$lt", Value: maxPrice}}},
	}
	opts := options.Find().SetProjection(bson.D{
		{Key: "_id", Value: 0},
		{Key: "name", Value: 1},
		{Key: "price", Value: 1},
		{Key: "stock", Value: 1},
	})
	cur, err := c.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find electronics: %w", err)
	}
	var out []ProductSummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode electronics: %w", err)
	}
	return out, nil
}

// RatedProduct is one product with its average review rating.
type RatedProduct struct {
	ProductID string  `bson:"_id"`
	Name      string  `bson:"name"`
	AvgRating float64 `bson:"avg_rating"`
}

// HighRatedProducts returns products whose average review rating is at least
// minRating.
func (c *Catalog) HighRatedProducts(ctx context.Context, minRating float64) ([]RatedProduct, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$reviews"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product_id"},
			{Key: "name", Value: bson.D{{Key: "$first", Value: "$name"}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "avg_rating", Value: bson.D{{Key: "$gte", Value: minRating}}},
		}}},
	}
	cur, err := c.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	var out []RatedProduct
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode ratings: %w", err)
	}
	return out, nil
}

// Review is one customer review pushed onto a product document.
type Review struct {
	User    string    `bson:"user"`
	Rating  int       `bson:"rating"`
	Comment string    `bson:"comment"`
	Date    time.Time `bson:"date"`
}

// AddReview appends a review to the product with the given catalog id and
// reports how many documents matched and were modified.
func (c *Catalog) AddReview(ctx context.Context, productID string, r Review) (matched, modified int64, err error) {
	if r.Date.IsZero() {
		r.Date = time.Now().UTC()
	}
	res, err := c.products.UpdateOne(ctx,
		bson.D{{Key: "product_id", Value: productID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "reviews", Value: r}}}},
	)
	if err != nil {
		return 0, 0, fmt.Errorf("add review: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// CategoryPrice is the per-category price aggregate.
type CategoryPrice struct {
	Category     string  `bson:"category"`
	AvgPrice     float64 `bson:"avg_price"`
	ProductCount int     `bson:"product_count"`
}

// AvgPriceByCategory returns average price and product count per category,
// most expensive categories first.
func (c *Catalog) AvgPriceByCategory(ctx context.Context) ([]CategoryPrice, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "avg_price", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "product_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "avg_price", Value: 1},
			{Key: "product_count", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "avg_price", Value: -1}}}},
	}
	cur, err := c.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate category prices: %w", err)
	}
	var out []CategoryPrice
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode category prices: %w", err)
	}
	return out, nil
}
