package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alfredoptarigan/interview-agent/internal/models"
)

const (
	sessionCollection   = "user_sessions"
	interviewCollection = "interviews"
	resumeCollection    = "resumes"
)

type sessionDocument struct {
	UserID         string           `bson:"user_id"`
	ResumeText     string           `bson:"resume_text"`
	JobDescription string           `bson:"job_description"`
	CompanyDetails string           `bson:"company_details"`
	Messages       []models.Message `bson:"messages"`
	CreatedAt      time.Time        `bson:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at"`
}

type interviewDocument struct {
	UserID         string           `bson:"user_id"`
	JobDescription string           `bson:"job_description"`
	CompanyDetails string           `bson:"company_details"`
	ResumeText     string           `bson:"resume_text"`
	Conversation   []models.Message `bson:"conversation"`
	Analysis       models.Analysis  `bson:"analysis,omitempty"`
	StartTime      time.Time        `bson:"start_time"`
	CreatedAt      time.Time        `bson:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at"`
}

type resumeDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Filename    string    `bson:"filename"`
	TextContent string    `bson:"text_content"`
	PageCount   int       `bson:"page_count"`
	UploadTime  time.Time `bson:"upload_time"`
}

// EnsureMongoIndexes creates the per-identifier indexes used by the Mongo repositories.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	for _, name := range []string{sessionCollection, interviewCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, unique); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}

	if _, err := db.Collection(resumeCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", resumeCollection, err)
	}

	return nil
}

type mongoSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoSessionRepository(db *mongo.Database) SessionRepository {
	return &mongoSessionRepository{collection: db.Collection(sessionCollection)}
}

func (r *mongoSessionRepository) FindByUserID(ctx context.Context, userID string) (*models.Session, error) {
	var doc sessionDocument
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("session %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &models.Session{
		UserID:         doc.UserID,
		ResumeText:     doc.ResumeText,
		JobDescription: doc.JobDescription,
		CompanyDetails: doc.CompanyDetails,
		Messages:       doc.Messages,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

func (r *mongoSessionRepository) Create(ctx context.Context, userID string) error {
	now := time.Now().UTC()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"messages":   []models.Message{},
			"created_at": now,
			"updated_at": now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *mongoSessionRepository) Upsert(ctx context.Context, userID string, fields models.SessionFields) error {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	setOnInsert := bson.M{"created_at": now}

	if fields.ResumeText != nil {
		set["resume_text"] = *fields.ResumeText
	}
	if fields.JobDescription != nil {
		set["job_description"] = *fields.JobDescription
	}
	if fields.CompanyDetails != nil {
		set["company_details"] = *fields.CompanyDetails
	}
	if fields.SetMessages {
		messages := fields.Messages
		if messages == nil {
			messages = []models.Message{}
		}
		set["messages"] = messages
	} else {
		setOnInsert["messages"] = []models.Message{}
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

type mongoInterviewRepository struct {
	collection *mongo.Collection
}

func NewMongoInterviewRepository(db *mongo.Database) InterviewRepository {
	return &mongoInterviewRepository{collection: db.Collection(interviewCollection)}
}

func (r *mongoInterviewRepository) FindByUserID(ctx context.Context, userID string) (*models.Interview, error) {
	var doc interviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("interview %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}

	interview := &models.Interview{
		UserID:         doc.UserID,
		JobDescription: doc.JobDescription,
		CompanyDetails: doc.CompanyDetails,
		ResumeText:     doc.ResumeText,
		Conversation:   doc.Conversation,
		StartTime:      doc.StartTime,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}

	if len(doc.Analysis) > 0 {
		payload, err := json.Marshal(doc.Analysis)
		if err != nil {
			return nil, fmt.Errorf("failed to encode analysis: %w", err)
		}
		interview.Analysis = payload
	}

	return interview, nil
}

func (r *mongoInterviewRepository) Upsert(ctx context.Context, snapshot *models.InterviewSnapshot) error {
	now := time.Now().UTC()

	conversation := snapshot.Conversation
	if conversation == nil {
		conversation = []models.Message{}
	}

	set := bson.M{
		"job_description": snapshot.JobDescription,
		"company_details": snapshot.CompanyDetails,
		"resume_text":     snapshot.ResumeText,
		"conversation":    conversation,
		"updated_at":      now,
	}
	setOnInsert := bson.M{"created_at": now}

	update := bson.M{"$set": set, "$setOnInsert": setOnInsert}

	// a new cycle drops the previous cycle's scores
	if snapshot.StartTime != nil {
		set["start_time"] = *snapshot.StartTime
		update["$unset"] = bson.M{"analysis": ""}
	} else {
		setOnInsert["start_time"] = now
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": snapshot.UserID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert interview: %w", err)
	}

	return nil
}

func (r *mongoInterviewRepository) UpdateAnalysis(ctx context.Context, userID string, analysis models.Analysis) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"analysis": analysis, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update analysis: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("interview %s: %w", userID, ErrNotFound)
	}

	return nil
}

type mongoResumeRepository struct {
	collection *mongo.Collection
}

func NewMongoResumeRepository(db *mongo.Database) ResumeRepository {
	return &mongoResumeRepository{collection: db.Collection(resumeCollection)}
}

func (r *mongoResumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	_, err := r.collection.InsertOne(ctx, resumeDocument{
		ID:          resume.ID.String(),
		UserID:      resume.UserID,
		Filename:    resume.Filename,
		TextContent: resume.TextContent,
		PageCount:   resume.PageCount,
		UploadTime:  resume.UploadTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}

	return nil
}
