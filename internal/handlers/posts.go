package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.blogger/internal/model"
)

const dateLayout = "02 Jan 2006 15:04"

func ListPosts(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		posts, err := postService.List(c.Request().Context())
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, "post-list.html", map[string]any{
			"Posts": posts,
		})
	}
}

func ViewPost(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := postID(c)
		if !ok {
			return redirect(c, "/posts")
		}
		post, err := postService.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if post == nil {
			return redirect(c, "/posts")
		}
		return render(c, http.StatusOK, "view-post.html", map[string]any{
			"Post":      post,
			"CreatedAt": post.CreatedAt.Format(dateLayout),
			"IsOwner":   postService.IsOwner(loadSession(c), post),
		})
	}
}

func NewPost() echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := loadSession(c).CurrentAccount(); !ok {
			return redirect(c, "/users/login")
		}
		return render(c, http.StatusOK, "new-post.html", nil)
	}
}

func CreatePost(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.PostParams{}
		if err := c.Bind(params); err != nil {
			return err
		}

		post, err := postService.Create(c.Request().Context(), loadSession(c), params)
		switch {
		case errors.Is(err, model.ErrorUnauthenticated):
			postOperations.WithLabelValues("create", "denied").Inc()
			return redirect(c, "/users/login")
		case errors.Is(err, model.ErrorMissingField):
			postOperations.WithLabelValues("create", "rejected").Inc()
			return render(c, http.StatusOK, "new-post.html", map[string]any{
				"Error":   "Title is required.",
				"Content": params.Content,
			})
		case err != nil:
			postOperations.WithLabelValues("create", "error").Inc()
			return err
		}

		postOperations.WithLabelValues("create", "success").Inc()
		c.Logger().Infof("account %d created post %d", post.AccountID, post.ID)
		return redirect(c, "/posts")
	}
}

func EditPost(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := postID(c)
		if !ok {
			return redirect(c, "/posts")
		}
		post, err := postService.Editable(c.Request().Context(), loadSession(c), id)
		if denied(err) {
			return redirect(c, "/posts")
		}
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, "edit-post.html", map[string]any{
			"Post": post,
		})
	}
}

func UpdatePost(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := postID(c)
		if !ok {
			return redirect(c, "/posts")
		}
		params := &model.PostParams{}
		if err := c.Bind(params); err != nil {
			return err
		}

		session := loadSession(c)
		post, err := postService.Update(c.Request().Context(), session, id, params)
		switch {
		case denied(err):
			postOperations.WithLabelValues("update", "denied").Inc()
			c.Logger().Warnf("update of post %d denied: %v", id, err)
			return redirect(c, "/posts")
		case errors.Is(err, model.ErrorMissingField):
			postOperations.WithLabelValues("update", "rejected").Inc()
			return render(c, http.StatusOK, "edit-post.html", map[string]any{
				"Error": "Title is required.",
				"Post":  &model.Post{ID: id, Content: params.Content},
			})
		case err != nil:
			postOperations.WithLabelValues("update", "error").Inc()
			return err
		}

		postOperations.WithLabelValues("update", "success").Inc()
		c.Logger().Infof("post %d updated", post.ID)
		return redirect(c, postPath(post.ID))
	}
}

func DeletePost(postService PostService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := postID(c)
		if !ok {
			return redirect(c, "/posts")
		}

		err := postService.Delete(c.Request().Context(), loadSession(c), id)
		switch {
		case denied(err):
			postOperations.WithLabelValues("delete", "denied").Inc()
			c.Logger().Warnf("delete of post %d denied: %v", id, err)
		case err != nil:
			postOperations.WithLabelValues("delete", "error").Inc()
			return err
		default:
			postOperations.WithLabelValues("delete", "success").Inc()
			c.Logger().Infof("post %d deleted", id)
		}
		return redirect(c, "/posts")
	}
}

// denied reports whether err means the post is missing or not the
// visitor's to change.
func denied(err error) bool {
	return errors.Is(err, model.ErrorNotFound) ||
		errors.Is(err, model.ErrorUnauthenticated) ||
		errors.Is(err, model.ErrorUnauthorized)
}
