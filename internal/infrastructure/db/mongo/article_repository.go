package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cosechaencope/marketplace/internal/core/domain"
)

const articlesCollection = "articulos"

type ArticleRepository struct {
	coll *mongo.Collection
	db   *mongo.Database
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{coll: db.Collection(articlesCollection), db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, "articulos")
	if err != nil {
		return nil, err
	}

	created := *a
	created.ID = id
	if _, err := r.coll.InsertOne(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ArticleRepository) FindAll(ctx context.Context) ([]domain.Article, error) {
	return r.find(ctx, bson.M{})
}

func (r *ArticleRepository) FindByCategory(ctx context.Context, categoryID int64) ([]domain.Article, error) {
	return r.find(ctx, bson.M{"category_id": categoryID})
}

func (r *ArticleRepository) FindByProducer(ctx context.Context, producerID int64) ([]domain.Article, error) {
	return r.find(ctx, bson.M{"producer_id": producerID})
}

func (r *ArticleRepository) find(ctx context.Context, filter bson.M) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	articles := make([]domain.Article, 0)
	if err := cur.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id int64) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Article
	err := r.coll.FindOne(ctx, bson.M{"article_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"article_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"article_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the articles collection.
func (r *ArticleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "article_id", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "producer_id", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
