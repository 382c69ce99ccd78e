package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biosecret/todolist-api/models"
)

const (
	usersCollection     = "users"
	todoListsCollection = "todolists"
	tasksCollection     = "todolisttasks"
)

type userDoc struct {
	ID        primitive.ObjectID   `bson:"_id"`
	FullName  string               `bson:"fullname"`
	Email     string               `bson:"email"`
	Hash      string               `bson:"hash"`
	Salt      string               `bson:"salt"`
	TodoLists []primitive.ObjectID `bson:"todoLists"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

type todoListDoc struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Author      primitive.ObjectID   `bson:"author"`
	Tasks       []primitive.ObjectID `bson:"tasks"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	DueDate     time.Time          `bson:"dueDate"`
	Completed   bool               `bson:"completed"`
	TodoList    primitive.ObjectID `bson:"todoList"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// MongoStore keeps each entity in its own collection and the back-references
// as ObjectID arrays on the owning documents.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	lists  *mongo.Collection
	tasks  *mongo.Collection
}

// StartMongoDB connects to uri, checks the connection and creates indexes.
func StartMongoDB(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("you must set your 'MONGO_URI' environmental variable")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	log.Info("Connected to MongoDB successfully")

	s := newMongoStore(client, database)
	if err := s.createIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return s, nil
}

func newMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client: client,
		users:  db.Collection(usersCollection),
		lists:  db.Collection(todoListsCollection),
		tasks:  db.Collection(tasksCollection),
	}
}

func (s *MongoStore) createIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.lists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "todoList", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return err
	}
	log.Info("Database connection closed")
	return nil
}

func (s *MongoStore) Truncate(ctx context.Context) error {
	for _, c := range []*mongo.Collection{s.tasks, s.lists, s.users} {
		if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}

// Users

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		FullName:  u.FullName,
		Email:     u.Email,
		Hash:      u.Hash,
		Salt:      u.Salt,
		TodoLists: objectIDs(u.TodoLists),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return mongoError(err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return doc.model(), nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, u *models.User) error {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"fullname":  u.FullName,
		"email":     u.Email,
		"hash":      u.Hash,
		"salt":      u.Salt,
		"updatedAt": now,
	}})
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	u.UpdatedAt = now
	return nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	listIDs, err := s.lists.Distinct(ctx, "_id", bson.M{"author": oid})
	if err != nil {
		return err
	}
	if len(listIDs) > 0 {
		if _, err := s.tasks.DeleteMany(ctx, bson.M{"todoList": bson.M{"$in": listIDs}}); err != nil {
			return err
		}
	}
	_, err = s.lists.DeleteMany(ctx, bson.M{"author": oid})
	return err
}

// Todo lists

func (s *MongoStore) CreateTodoList(ctx context.Context, author *models.User, l *models.TodoList) error {
	authorID, err := primitive.ObjectIDFromHex(author.ID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	oid := primitive.NewObjectID()
	l.ID = oid.Hex()
	l.CreatedAt, l.UpdatedAt = now, now
	author.AddTodoList(l)

	doc := todoListDoc{
		ID:          oid,
		Name:        l.Name,
		Description: l.Description,
		Author:      authorID,
		Tasks:       objectIDs(l.Tasks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.lists.InsertOne(ctx, doc); err != nil {
		return mongoError(err)
	}

	_, err = s.users.UpdateOne(ctx, bson.M{"_id": authorID}, bson.M{
		"$push": bson.M{"todoLists": oid},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return fmt.Errorf("link todo list to author: %w", err)
	}
	return nil
}

func (s *MongoStore) FindTodoList(ctx context.Context, id string) (*models.TodoList, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findTodoList(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) FindTodoListByAuthor(ctx context.Context, id, authorID string) (*models.TodoList, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	author, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findTodoList(ctx, bson.M{"_id": oid, "author": author})
}

func (s *MongoStore) findTodoList(ctx context.Context, filter bson.M) (*models.TodoList, error) {
	var doc todoListDoc
	if err := s.lists.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}

	l := doc.model()
	if err := s.populateAuthor(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *MongoStore) populateAuthor(ctx context.Context, l *models.TodoList) error {
	author, err := s.FindUserByID(ctx, l.AuthorID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	l.Author = author
	return nil
}

func (s *MongoStore) ListTodoLists(ctx context.Context, authorID string, limit, offset int) ([]*models.TodoList, int64, error) {
	author, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return []*models.TodoList{}, 0, nil
	}
	filter := bson.M{"author": author}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := s.lists.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []todoListDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	count, err := s.lists.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	owner, err := s.FindUserByID(ctx, authorID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, 0, err
	}

	lists := make([]*models.TodoList, 0, len(docs))
	for i := range docs {
		l := docs[i].model()
		l.Author = owner
		lists = append(lists, l)
	}
	return lists, count, nil
}

func (s *MongoStore) UpdateTodoList(ctx context.Context, l *models.TodoList) error {
	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	res, err := s.lists.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        l.Name,
		"description": l.Description,
		"updatedAt":   now,
	}})
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	l.UpdatedAt = now
	return nil
}

func (s *MongoStore) DeleteTodoList(ctx context.Context, l *models.TodoList) error {
	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return ErrNotFound
	}

	if _, err := s.tasks.DeleteMany(ctx, bson.M{"todoList": oid}); err != nil {
		return err
	}

	res, err := s.lists.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	if author, err := primitive.ObjectIDFromHex(l.AuthorID); err == nil {
		_, err = s.users.UpdateOne(ctx, bson.M{"_id": author}, bson.M{"$pull": bson.M{"todoLists": oid}})
		if err != nil {
			return fmt.Errorf("unlink todo list from author: %w", err)
		}
	}
	return nil
}

// Tasks

func (s *MongoStore) CreateTask(ctx context.Context, list *models.TodoList, t *models.Task) error {
	listID, err := primitive.ObjectIDFromHex(list.ID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	oid := primitive.NewObjectID()
	t.ID = oid.Hex()
	t.CreatedAt, t.UpdatedAt = now, now
	list.AddTask(t)

	doc := taskDoc{
		ID:          oid,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		TodoList:    listID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.tasks.InsertOne(ctx, doc); err != nil {
		return mongoError(err)
	}

	_, err = s.lists.UpdateOne(ctx, bson.M{"_id": listID}, bson.M{
		"$push": bson.M{"tasks": oid},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return fmt.Errorf("link task to todo list: %w", err)
	}
	return nil
}

func (s *MongoStore) FindTask(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc taskDoc
	if err := s.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return doc.model(), nil
}

func (s *MongoStore) ListTasks(ctx context.Context, todoListID string) ([]*models.Task, int64, error) {
	listID, err := primitive.ObjectIDFromHex(todoListID)
	if err != nil {
		return []*models.Task{}, 0, nil
	}
	filter := bson.M{"todoList": listID}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	count, err := s.tasks.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	tasks := make([]*models.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].model())
	}
	return tasks, count, nil
}

func (s *MongoStore) UpdateTask(ctx context.Context, t *models.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	res, err := s.tasks.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        t.Name,
		"description": t.Description,
		"dueDate":     t.DueDate,
		"completed":   t.Completed,
		"updatedAt":   now,
	}})
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	t.UpdatedAt = now
	return nil
}

func (s *MongoStore) DeleteTask(ctx context.Context, t *models.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return ErrNotFound
	}

	if listID, err := primitive.ObjectIDFromHex(t.TodoListID); err == nil {
		_, err = s.lists.UpdateOne(ctx, bson.M{"_id": listID}, bson.M{"$pull": bson.M{"tasks": oid}})
		if err != nil {
			return fmt.Errorf("unlink task from todo list: %w", err)
		}
	}

	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// conversions

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		FullName:  d.FullName,
		Email:     d.Email,
		Hash:      d.Hash,
		Salt:      d.Salt,
		TodoLists: hexes(d.TodoLists),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *todoListDoc) model() *models.TodoList {
	return &models.TodoList{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		AuthorID:    d.Author.Hex(),
		Tasks:       hexes(d.Tasks),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d *taskDoc) model() *models.Task {
	return &models.Task{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		DueDate:     d.DueDate,
		Completed:   d.Completed,
		TodoListID:  d.TodoList.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func mongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return &DuplicateKeyError{Field: "email", Err: err}
	default:
		return err
	}
}
