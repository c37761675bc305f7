package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

type customerSnapshotDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Phone string             `bson:"phone"`
}

type movieSnapshotDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	Title           string             `bson:"title"`
	DailyRentalRate int                `bson:"daily_rental_rate"`
}

type rentalDoc struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	Customer     customerSnapshotDoc `bson:"customer"`
	Movie        movieSnapshotDoc    `bson:"movie"`
	DateOut      time.Time           `bson:"date_out"`
	DateReturned *time.Time          `bson:"date_returned,omitempty"`
	RentalFee    *int                `bson:"rental_fee,omitempty"`
}

func newRentalDoc(r *domain.Rental) (rentalDoc, error) {
	customerID, ok := objectID(r.Customer.ID)
	if !ok {
		return rentalDoc{}, domain.ErrInvalidCustomer
	}
	movieID, ok := objectID(r.Movie.ID)
	if !ok {
		return rentalDoc{}, domain.ErrInvalidMovie
	}
	return rentalDoc{
		Customer: customerSnapshotDoc{ID: customerID, Name: r.Customer.Name, Phone: r.Customer.Phone},
		Movie: movieSnapshotDoc{
			ID:              movieID,
			Title:           r.Movie.Title,
			DailyRentalRate: r.Movie.DailyRentalRate,
		},
		DateOut:      r.DateOut.UTC(),
		DateReturned: r.DateReturned,
		RentalFee:    r.RentalFee,
	}, nil
}

func (d *rentalDoc) toDomain() *domain.Rental {
	r := &domain.Rental{
		ID: d.ID.Hex(),
		Customer: domain.CustomerSnapshot{
			ID:    d.Customer.ID.Hex(),
			Name:  d.Customer.Name,
			Phone: d.Customer.Phone,
		},
		Movie: domain.MovieSnapshot{
			ID:              d.Movie.ID.Hex(),
			Title:           d.Movie.Title,
			DailyRentalRate: d.Movie.DailyRentalRate,
		},
		DateOut:   d.DateOut.UTC(),
		RentalFee: d.RentalFee,
	}
	if d.DateReturned != nil {
		at := d.DateReturned.UTC()
		r.DateReturned = &at
	}
	return r
}

// RentalRepository implements ports.RentalRepository using MongoDB. Checkout
// and CompleteReturn run as multi-document transactions across the rentals
// and movies collections.
type RentalRepository struct {
	client  *mongo.Client
	rentals *mongo.Collection
	movies  *mongo.Collection
}

// NewRentalRepository creates a new RentalRepository.
func NewRentalRepository(db *mongo.Database) ports.RentalRepository {
	return &RentalRepository{
		client:  db.Client(),
		rentals: db.Collection(collectionRentals),
		movies:  db.Collection(collectionMovies),
	}
}

func (r *RentalRepository) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *RentalRepository) Checkout(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	doc, err := newRentalDoc(rental)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		open, err := r.rentals.CountDocuments(sc, openRentalFilter(doc.Customer.ID, doc.Movie.ID))
		if err != nil {
			return fmt.Errorf("count open rentals: %w", err)
		}
		if open > 0 {
			return domain.ErrRentalOpen
		}

		res, err := r.movies.UpdateOne(sc,
			bson.M{"_id": doc.Movie.ID, "number_in_stock": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"number_in_stock": -1}},
		)
		if err != nil {
			return fmt.Errorf("take movie from stock: %w", err)
		}
		if res.MatchedCount == 0 {
			exists, err := r.movies.CountDocuments(sc, bson.M{"_id": doc.Movie.ID})
			if err != nil {
				return fmt.Errorf("find movie: %w", err)
			}
			if exists == 0 {
				return domain.ErrInvalidMovie
			}
			return domain.ErrOutOfStock
		}

		if _, err := r.rentals.InsertOne(sc, doc); err != nil {
			return fmt.Errorf("insert rental: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *RentalRepository) FindByID(ctx context.Context, id string) (*domain.Rental, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRentalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc rentalDoc
	if err := r.rentals.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrRentalNotFound
		}
		return nil, fmt.Errorf("find rental: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByCustomerAndMovie relies on missing fields sorting first in ascending
// order: an open rental (no date_returned) wins over any closed one.
func (r *RentalRepository) FindByCustomerAndMovie(ctx context.Context, customerID, movieID string) (*domain.Rental, error) {
	cid, ok := objectID(customerID)
	if !ok {
		return nil, domain.ErrNoRentalForPair
	}
	mid, ok := objectID(movieID)
	if !ok {
		return nil, domain.ErrNoRentalForPair
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{
		{Key: "date_returned", Value: 1},
		{Key: "date_out", Value: -1},
	})

	var doc rentalDoc
	if err := r.rentals.FindOne(ctx, bson.M{"customer._id": cid, "movie._id": mid}, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrNoRentalForPair
		}
		return nil, fmt.Errorf("find rental: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RentalRepository) CompleteReturn(ctx context.Context, rental *domain.Rental) error {
	if rental.DateReturned == nil || rental.RentalFee == nil {
		return fmt.Errorf("complete return %s: rental is still open", rental.ID)
	}
	rentalID, ok := objectID(rental.ID)
	if !ok {
		return domain.ErrRentalNotFound
	}
	movieID, ok := objectID(rental.Movie.ID)
	if !ok {
		return domain.ErrInvalidMovie
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.rentals.UpdateOne(sc,
			bson.M{"_id": rentalID, "date_returned": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{
				"date_returned": rental.DateReturned.UTC(),
				"rental_fee":    *rental.RentalFee,
			}},
		)
		if err != nil {
			return fmt.Errorf("close rental: %w", err)
		}
		if res.MatchedCount == 0 {
			exists, err := r.rentals.CountDocuments(sc, bson.M{"_id": rentalID})
			if err != nil {
				return fmt.Errorf("find rental: %w", err)
			}
			if exists == 0 {
				return domain.ErrRentalNotFound
			}
			return domain.ErrAlreadyProcessed
		}

		// A movie deleted since checkout has nothing to restock.
		if _, err := r.movies.UpdateOne(sc,
			bson.M{"_id": movieID},
			bson.M{"$inc": bson.M{"number_in_stock": 1}},
		); err != nil {
			return fmt.Errorf("restock movie: %w", err)
		}
		return nil
	})
}

func (r *RentalRepository) Delete(ctx context.Context, id string) (*domain.Rental, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRentalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc rentalDoc
	if err := r.rentals.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrRentalNotFound
		}
		return nil, fmt.Errorf("delete rental: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RentalRepository) List(ctx context.Context, filter ports.RentalFilter) ([]*domain.Rental, error) {
	query := bson.M{}
	if filter.CustomerID != "" {
		cid, ok := objectID(filter.CustomerID)
		if !ok {
			return []*domain.Rental{}, nil
		}
		query["customer._id"] = cid
	}
	if filter.OpenOnly {
		query["date_returned"] = bson.M{"$exists": false}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.rentals.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date_out", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	var docs []rentalDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode rentals: %w", err)
	}

	out := make([]*domain.Rental, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func openRentalFilter(customerID, movieID primitive.ObjectID) bson.M {
	return bson.M{
		"customer._id":  customerID,
		"movie._id":     movieID,
		"date_returned": bson.M{"$exists": false},
	}
}
