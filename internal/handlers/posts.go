package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"techblog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidPostID = "invalid post id"
	errPostNotFound  = "post not found"
	errNotAuthor     = "Forbidden: You are not the author of this post"
	errNoFile        = "No file uploaded"
	errListPosts     = "failed to load posts"
	errGetPost       = "failed to load post"
	errCreatePost    = "failed to create post"
	errUpdatePost    = "failed to update post"
	errDeletePost    = "failed to delete post"
)

// postIDParam parses the :id path segment. A non-numeric id is a 400,
// distinct from a well-formed id that matches nothing (404 later).
func (h *Handler) postIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPostID})
		return 0, false
	}
	return id, true
}

// postInputFromForm collects the text fields of a multipart post request.
func postInputFromForm(c *gin.Context) service.PostInput {
	return service.PostInput{
		Title:     c.PostForm("title"),
		Summary:   c.PostForm("summary"),
		Content:   c.PostForm("content"),
		ImgCredit: c.PostForm("imgCredit"),
	}
}

// uploadFromFileHeader opens the uploaded part as a service.Upload.
// The returned closer must be closed after the service call.
func uploadFromFileHeader(fh *multipart.FileHeader) (*service.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	}, f, nil
}

// respondPostError maps post-service failures onto the externally
// observable status contract.
func (h *Handler) respondPostError(c *gin.Context, err error, genericMsg, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errPostNotFound})
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": errNotAuthor})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, genericMsg, logKey, err, kv...)
	}
}

// @Summary      List posts
// @Description  Up to the 20 most recent posts, newest first, with author names.
// @Tags         posts
// @Produce      json
// @Success      200  {array}   models.Post
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListPosts, "posts_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "post id"
// @Success      200  {object}  models.Post
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *Handler) getPost(c *gin.Context) {
	id, ok := h.postIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondPostError(c, err, errGetPost, "posts_get_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary      Create post
// @Description  Multipart request with title, summary, content, imgCredit fields and a required cover file.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  models.Post
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /posts [post]
func (h *Handler) createPost(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNoToken})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoFile})
		return
	}
	upload, f, err := uploadFromFileHeader(fh)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errCreatePost, "posts_open_upload_failed", err)
		return
	}
	defer f.Close()

	post, err := h.services.Create(c.Request.Context(), claims.UserID, postInputFromForm(c), *upload)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errCreatePost, "posts_create_failed", err,
			"author_id", claims.UserID)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// @Summary      Update post
// @Description  Author-only. The cover is replaced only when a new file part is present.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path      int  true  "post id"
// @Success      200  {object}  models.Post
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *Handler) updatePost(c *gin.Context) {
	id, ok := h.postIDParam(c)
	if !ok {
		return
	}
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNoToken})
		return
	}

	var upload *service.Upload
	if fh, err := c.FormFile("file"); err == nil {
		u, f, err := uploadFromFileHeader(fh)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errUpdatePost, "posts_open_upload_failed", err)
			return
		}
		defer f.Close()
		upload = u
	}

	post, err := h.services.Update(c.Request.Context(), claims.UserID, id, postInputFromForm(c), upload)
	if err != nil {
		h.respondPostError(c, err, errUpdatePost, "posts_update_failed", "id", id, "actor_id", claims.UserID)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary      Delete post
// @Description  Author-only. Removes the cover object from storage (absent object tolerated), then the record.
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "post id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *Handler) deletePost(c *gin.Context) {
	id, ok := h.postIDParam(c)
	if !ok {
		return
	}
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNoToken})
		return
	}

	if err := h.services.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		h.respondPostError(c, err, errDeletePost, "posts_delete_failed", "id", id, "actor_id", claims.UserID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
