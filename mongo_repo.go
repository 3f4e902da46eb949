package accounts

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepository struct {
	collection *mongo.Collection
}

func NewMongoAccountRepository(c *mongo.Collection) Repository {
	return &mongoAccountRepository{collection: c}
}

// EnsureUsernameIndex creates the unique index on username. The index
// is the source of truth for username uniqueness; the service's
// duplicate pre-check only exists to fail early.
func EnsureUsernameIndex(ctx context.Context, c *mongo.Collection) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := c.Indexes().CreateOne(ctx, model)
	return err
}

func (m *mongoAccountRepository) FindByName(username string) (*Account, error) {
	return m.findAccountBy("username", username)
}

func (m *mongoAccountRepository) FindByID(id ID) (*Account, error) {
	return m.findAccountBy("_id", string(id))
}

func (m *mongoAccountRepository) findAccountBy(key string, val string) (*Account, error) {
	var acc Account
	sr := m.collection.FindOne(context.TODO(), bson.M{key: val})

	if sr.Err() == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}

	if err := sr.Decode(&acc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &acc, nil
}

func (m *mongoAccountRepository) FindAll() ([]Account, error) {
	cur, err := m.collection.Find(context.TODO(), bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(context.TODO())

	var accs []Account
	for cur.Next(context.TODO()) {
		var acc Account
		if err := cur.Decode(&acc); err != nil {
			return nil, err
		}
		accs = append(accs, acc)
	}

	return accs, cur.Err()
}

func (m *mongoAccountRepository) Insert(acc *Account) error {
	if acc.ID == "" {
		acc.ID = NewID()
	}

	if _, err := m.collection.InsertOne(context.TODO(), acc); err != nil {
		if isDuplicateKey(err) {
			return ErrExistingUsername
		}
		return err
	}
	return nil
}

func (m *mongoAccountRepository) Update(acc *Account) error {
	_, err := m.collection.ReplaceOne(context.TODO(), bson.M{"_id": acc.ID}, acc)
	if isDuplicateKey(err) {
		return ErrExistingUsername
	}
	return err
}

func (m *mongoAccountRepository) Delete(id ID) error {
	_, err := m.collection.DeleteOne(context.TODO(), bson.M{"_id": string(id)})
	return err
}

// ProjectAll runs a $project aggregation limited to the given field
// names and returns the partial records.
func (m *mongoAccountRepository) ProjectAll(fields []string) ([]AuditEntry, error) {
	proj := bson.M{}
	for _, f := range fields {
		proj[f] = 1
	}

	cur, err := m.collection.Aggregate(context.TODO(), mongo.Pipeline{
		{{Key: "$project", Value: proj}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(context.TODO())

	var entries []AuditEntry
	for cur.Next(context.TODO()) {
		var e AuditEntry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, cur.Err()
}

func isDuplicateKey(err error) bool {
	we, ok := err.(mongo.WriteException)
	if !ok {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 {
			return true
		}
	}
	return false
}
