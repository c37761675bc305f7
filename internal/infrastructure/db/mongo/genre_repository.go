package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

type genreDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

func (d *genreDoc) toDomain() *domain.Genre {
	return &domain.Genre{ID: d.ID.Hex(), Name: d.Name}
}

// GenreRepository implements ports.GenreRepository using MongoDB.
type GenreRepository struct {
	col *mongo.Collection
}

// NewGenreRepository creates a new GenreRepository.
func NewGenreRepository(db *mongo.Database) ports.GenreRepository {
	return &GenreRepository{col: db.Collection(collectionGenres)}
}

func (r *GenreRepository) Create(ctx context.Context, g *domain.Genre) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := genreDoc{ID: primitive.NewObjectID(), Name: g.Name}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert genre: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GenreRepository) FindByID(ctx context.Context, id string) (*domain.Genre, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrGenreNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *GenreRepository) FindByName(ctx context.Context, name string) (*domain.Genre, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *GenreRepository) findOne(ctx context.Context, filter bson.M) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc genreDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, fmt.Errorf("find genre: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GenreRepository) Update(ctx context.Context, g *domain.Genre) (*domain.Genre, error) {
	oid, ok := objectID(g.ID)
	if !ok {
		return nil, domain.ErrGenreNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc genreDoc
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"name": g.Name}}, opts).Decode(&doc)
	switch {
	case err == nil:
		return doc.toDomain(), nil
	case isNoDocuments(err):
		return nil, domain.ErrGenreNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrDuplicateKey
	default:
		return nil, fmt.Errorf("update genre: %w", err)
	}
}

func (r *GenreRepository) Delete(ctx context.Context, id string) (*domain.Genre, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrGenreNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc genreDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrGenreNotFound
		}
		return nil, fmt.Errorf("delete genre: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GenreRepository) List(ctx context.Context) ([]*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	var docs []genreDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}

	out := make([]*domain.Genre, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
