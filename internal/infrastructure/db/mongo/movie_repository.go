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

type genreRefDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

type movieDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Genre           genreRefDoc        `bson:"genre"`
	NumberInStock   int                `bson:"number_in_stock"`
	DailyRentalRate int                `bson:"daily_rental_rate"`
}

func newMovieDoc(m *domain.Movie) (movieDoc, error) {
	genreID, ok := objectID(m.Genre.ID)
	if !ok {
		return movieDoc{}, domain.ErrInvalidGenre
	}
	return movieDoc{
		Title:           m.Title,
		Genre:           genreRefDoc{ID: genreID, Name: m.Genre.Name},
		NumberInStock:   m.NumberInStock,
		DailyRentalRate: m.DailyRentalRate,
	}, nil
}

func (d *movieDoc) toDomain() *domain.Movie {
	return &domain.Movie{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Genre:           domain.GenreRef{ID: d.Genre.ID.Hex(), Name: d.Genre.Name},
		NumberInStock:   d.NumberInStock,
		DailyRentalRate: d.DailyRentalRate,
	}
}

// MovieRepository implements ports.MovieRepository using MongoDB.
type MovieRepository struct {
	col *mongo.Collection
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *mongo.Database) ports.MovieRepository {
	return &MovieRepository{col: db.Collection(collectionMovies)}
}

func (r *MovieRepository) Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	doc, err := newMovieDoc(m)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrMovieNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc movieDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MovieRepository) Update(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	oid, ok := objectID(m.ID)
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	doc, err := newMovieDoc(m)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":             doc.Title,
		"genre":             doc.Genre,
		"number_in_stock":   doc.NumberInStock,
		"daily_rental_rate": doc.DailyRentalRate,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated movieDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return updated.toDomain(), nil
}

func (r *MovieRepository) Delete(ctx context.Context, id string) (*domain.Movie, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrMovieNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc movieDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("delete movie: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MovieRepository) List(ctx context.Context, filter ports.MovieFilter) ([]*domain.Movie, error) {
	query := bson.M{}
	if filter.GenreID != "" {
		genreID, ok := objectID(filter.GenreID)
		if !ok {
			return []*domain.Movie{}, nil
		}
		query["genre._id"] = genreID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	var docs []movieDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	out := make([]*domain.Movie, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
