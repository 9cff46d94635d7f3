package server

import (
	"errors"
	"fmt"
	"io"

	"quill/internal/forms"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /. It returns the requested page of all posts.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPosts(c.Context(), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /posts/:id. It returns the post with its comments and
// the author's post count.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.GetPostDetail(c.Context(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// Feed handles GET /follow. It returns the requested page of posts by
// authors the user follows.
func (s *Server) Feed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	page, err := s.postService.ListFeed(c.Context(), userID, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// NewPostForm handles GET /create. It returns the context needed to render
// the authoring form, currently the selectable groups.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// CreatePost handles POST /create. A successful creation redirects to the
// author's profile.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	form, err := s.parsePostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	if _, err := s.postService.CreatePost(c.Context(), userID, form); err != nil {
		return respondError(c, err)
	}

	user, err := s.userService.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return redirect(c, "/profile/"+user.Username)
}

// EditPostForm handles GET /posts/:id/edit. Only the author gets the form;
// anyone else is sent to the post itself.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID)
	if err != nil {
		return respondError(c, err)
	}
	if post.AuthorID != userID {
		return redirect(c, fmt.Sprintf("/posts/%d", postID))
	}

	groups, err := s.groupService.ListGroups(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post, "groups": groups})
}

// EditPost handles POST /posts/:id/edit. A successful edit redirects to the
// post; a non-author is sent there without editing anything.
func (s *Server) EditPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := s.parsePostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	if _, err := s.postService.UpdatePost(c.Context(), userID, postID, form); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.ErrCodePermissionDenied {
			return redirect(c, fmt.Sprintf("/posts/%d", postID))
		}
		return respondError(c, err)
	}
	return redirect(c, fmt.Sprintf("/posts/%d", postID))
}

// ServeMedia handles GET /media/*, serving processed attachments.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	full, err := s.imageService.Resolve(c.Params("*"))
	if err != nil {
		return respondError(c, err)
	}
	return c.SendFile(full)
}

// parsePostForm reads the multipart authoring form, processing the optional
// image attachment into the media store.
func (s *Server) parsePostForm(c *fiber.Ctx) (*forms.PostForm, error) {
	groupID, err := parseGroupID(c.FormValue("group"))
	if err != nil {
		return nil, err
	}

	form := &forms.PostForm{
		Text:    c.FormValue("text"),
		GroupID: groupID,
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No attachment is fine.
		return form, nil
	}

	// Operational kill switch while image processing misbehaves.
	if userID, ok := c.Locals("userID").(uint); ok && s.flags.Enabled("disable_image_uploads", userID) {
		return nil, models.NewValidationError("Image uploads are temporarily disabled").
			WithForm(map[string]string{"text": form.Text})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	rel, err := s.imageService.Process(service.UploadImageInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return nil, err
	}
	form.Image = rel
	return form, nil
}
