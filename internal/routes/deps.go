package routes

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/ualiu/neighbours-only/internal/moderation"
	"github.com/ualiu/neighbours-only/internal/repository"
	"github.com/ualiu/neighbours-only/internal/services"
)

// Deps is everything the route groups need, built once in main.
type Deps struct {
	Log        *zap.Logger
	Posts      *repository.PostRepository
	Users      *repository.UserRepository
	Reports    *repository.ReportRepository
	Comments   *repository.CommentRepository
	Learning   *repository.LearningRepository
	PostSvc    *services.PostService
	Escalation *moderation.EscalationController
}

type Repos struct {
	Posts    *repository.PostRepository
	Users    *repository.UserRepository
	Reports  *repository.ReportRepository
	Comments *repository.CommentRepository
	Learning *repository.LearningRepository
}

// NewRepos binds the repositories to their collections. Post and comment
// writes that touch two collections run in transactions on db's client.
func NewRepos(db *mongo.Database) Repos {
	client := db.Client()
	colPosts := db.Collection("posts")
	colComments := db.Collection("comments")
	colReports := db.Collection("reports")
	return Repos{
		Posts:    &repository.PostRepository{Client: client, ColPosts: colPosts, ColComments: colComments, ColReports: colReports},
		Users:    &repository.UserRepository{ColUsers: db.Collection("users"), ColPosts: colPosts},
		Reports:  &repository.ReportRepository{ColReports: colReports},
		Comments: &repository.CommentRepository{Client: client, ColComments: colComments, ColPosts: colPosts},
		Learning: &repository.LearningRepository{ColLearning: db.Collection("moderation_learning")},
	}
}
