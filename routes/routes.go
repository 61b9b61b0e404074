package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/phillip/hoa-backoffice-go/config"
	"github.com/phillip/hoa-backoffice-go/controllers"
	"github.com/phillip/hoa-backoffice-go/feed"
	"github.com/phillip/hoa-backoffice-go/ledger"
	"github.com/phillip/hoa-backoffice-go/middleware"
	"github.com/phillip/hoa-backoffice-go/store"
)

// Deps bundles the wired services handed to the route table.
type Deps struct {
	Store         *store.MongoStore
	Contributions *ledger.ContributionLedger
	Expenses      *ledger.ExpenseLedger
	Balance       *ledger.BalanceAggregator
	Feed          *feed.Service
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	// public
	r.POST("/auth/login", controllers.Login(cfg, d.Store))
	r.POST("/auth/refresh", controllers.RefreshToken(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)
	admin := middleware.RequireAdmin()

	r.POST("/auth/register", auth, admin, controllers.Register(d.Store))

	members := r.Group("/members")
	members.Use(auth)
	{
		members.GET("", controllers.ListMembers(d.Store))
		members.GET("/:id", controllers.GetMember(d.Store))
		members.POST("", admin, controllers.CreateMember(d.Store))
		members.PATCH("/:id", admin, controllers.UpdateMember(d.Store))
		members.DELETE("/:id", admin, controllers.DeleteMember(d.Store))
	}

	contributions := r.Group("/contributions")
	contributions.Use(auth)
	{
		contributions.POST("", admin, controllers.RecordContribution(d.Contributions))
		contributions.GET("", controllers.ListContributionsByMonth(d.Contributions))
		contributions.GET("/summary/:year", controllers.ContributionYearSummary(d.Contributions))
	}

	expenses := r.Group("/expenses")
	expenses.Use(auth)
	{
		expenses.POST("", admin, controllers.RecordExpense(d.Expenses))
		expenses.PATCH("/:id", admin, controllers.UpdateExpense(d.Expenses))
		expenses.GET("", controllers.ListExpenses(d.Expenses))
		expenses.GET("/summary/:year", controllers.ExpenseYearTotal(d.Expenses))
	}

	finance := r.Group("/finance")
	finance.Use(auth)
	{
		finance.GET("/series/:year", controllers.FinanceMonthlySeries(d.Balance))
		finance.GET("/summary/:year", controllers.FinanceYearSummary(d.Balance))
	}

	posts := r.Group("/posts")
	posts.Use(auth)
	{
		posts.POST("", controllers.CreatePost(d.Feed))
		posts.GET("", controllers.ListPosts(d.Feed))
		posts.GET("/:id", controllers.GetPost(d.Feed))
		posts.PATCH("/:id", controllers.UpdatePost(d.Feed))
		posts.DELETE("/:id", controllers.DeletePost(d.Feed))
		posts.POST("/:id/react", controllers.ToggleReaction(d.Feed))
		posts.POST("/:id/comments", controllers.AddComment(d.Feed))
		posts.GET("/:id/comments", controllers.ListComments(d.Feed))
	}
}
