package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.blogger/internal/model"
)

type AuthService interface {
	Register(ctx context.Context, params *model.RegisterParams) (*model.Account, error)
	Authenticate(ctx context.Context, params *model.LoginParams) (model.Session, error)
	Logout(session model.Session) model.Session
}

type PostService interface {
	IsOwner(session model.Session, post *model.Post) bool
	Create(ctx context.Context, session model.Session, params *model.PostParams) (*model.Post, error)
	Get(ctx context.Context, id model.PostID) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	Editable(ctx context.Context, session model.Session, id model.PostID) (*model.Post, error)
	Update(ctx context.Context, session model.Session, id model.PostID, params *model.PostParams) (*model.Post, error)
	Delete(ctx context.Context, session model.Session, id model.PostID) error
}

// Router is satisfied by both *echo.Echo and *echo.Group.
type Router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Routes registers the blog's pages on e.
func Routes(e Router, authService AuthService, postService PostService) {
	e.GET("/", Home(postService))

	e.GET("/posts", ListPosts(postService))
	e.GET("/posts/new", NewPost())
	e.POST("/posts/new", CreatePost(postService))
	e.GET("/posts/:id", ViewPost(postService))
	e.GET("/posts/:id/edit", EditPost(postService))
	e.POST("/posts/:id/edit", UpdatePost(postService))
	e.POST("/posts/:id/delete", DeletePost(postService))

	e.GET("/users/register", ShowRegister())
	e.POST("/users/register", Register(authService))
	e.GET("/users/login", ShowLogin())
	e.POST("/users/login", Login(authService))
	e.POST("/users/logout", Logout(authService))
}

func Home(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		posts, err := postService.List(c.Request().Context())
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, "homepage.html", map[string]any{
			"Posts": posts,
		})
	}
}

func redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}

func postPath(id model.PostID) string {
	return fmt.Sprintf("/posts/%d", id)
}

// postID parses the :id path parameter. Ids that are not numbers name no post.
func postID(c echo.Context) (model.PostID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return model.PostID(id), true
}
