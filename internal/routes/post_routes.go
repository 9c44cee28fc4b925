package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ualiu/neighbours-only/internal/controllers"
	"github.com/ualiu/neighbours-only/internal/middleware"
)

func SetupRoutesPost(app fiber.Router, d Deps) {
	ph := &controllers.PostHandler{Service: d.PostSvc, Posts: d.Posts, Deleter: d.Posts, Log: d.Log}
	ch := &controllers.ConcernHandler{Escalation: d.Escalation, Posts: d.Posts, Reports: d.Reports, Log: d.Log}
	cm := &controllers.CommentHandler{Posts: d.Posts, Comments: d.Comments, Log: d.Log}

	posts := app.Group("/posts")
	posts.Post("/", ph.CreatePost)
	posts.Get("/:postId", ph.GetPost)
	posts.Delete("/:postId", ph.DeletePost)
	posts.Post("/:postId/concern", ch.FileConcern)
	posts.Get("/:postId/reports", ch.ListReports)
	posts.Get("/:postId/comments", cm.ListComments)
	posts.Post("/:postId/comments", cm.CreateComment)

	app.Delete("/comments/:commentId", cm.DeleteComment)
}

func SetupRoutesFeed(app fiber.Router, d Deps) {
	fh := &controllers.FeedHandler{Repo: d.Posts, Log: d.Log}
	app.Get("/feed", fh.GetFeed)
}

// SetupRoutesModeration is staff only: the learning log exposes reports and
// verdicts from every neighborhood.
func SetupRoutesModeration(app fiber.Router, d Deps) {
	lh := &controllers.LearningHandler{Repo: d.Learning, Log: d.Log}
	mod := app.Group("/moderation", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleModerator))
	mod.Get("/learning", lh.ListLearning)
}
