// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"quill/internal/forms"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
)

// PostService provides post authoring and listing business logic.
type PostService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"pagination"`
}

// PostDetail is a single post with its discussion attached.
type PostDetail struct {
	Post *models.Post `json:"post"`
	// AuthorPostCount is how many posts the author has in total, shown
	// alongside the post.
	AuthorPostCount int64            `json:"author_post_count"`
	Comments        []models.Comment `json:"comments"`
	CommentCount    int              `json:"comment_count"`
}

// GroupPage is one page of a group's posts together with the group itself.
type GroupPage struct {
	Group *models.Group   `json:"group"`
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"pagination"`
}

// Profile is one page of an author's posts together with the author and the
// viewer's follow state.
type Profile struct {
	User      *models.User    `json:"user"`
	Posts     []*models.Post  `json:"posts"`
	Page      pagination.Page `json:"pagination"`
	PostCount int64           `json:"post_count"`
	// Following is true when the viewer follows this author. Always false
	// for anonymous viewers and on the viewer's own profile.
	Following bool `json:"following"`
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	followRepo repository.FollowRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
	}
}

// CreatePost validates the form and stores a new post for the author. The
// group, when given, must exist.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, form *forms.PostForm) (*models.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if form.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *form.GroupID); err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		Text:     form.Text,
		AuthorID: authorID,
		GroupID:  form.GroupID,
		Image:    form.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies the form to an existing post. Only the author may edit;
// anyone else gets a permission error. The creation timestamp never changes.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, form *forms.PostForm) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewPermissionDeniedError("You can only edit your own posts")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if form.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *form.GroupID); err != nil {
			return nil, err
		}
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	if form.Image != "" {
		post.Image = form.Image
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// GetPost returns the post for editing checks and detail lookups.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// GetPostDetail returns the post with its comments and the author's total
// post count.
func (s *PostService) GetPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	authorCount, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &PostDetail{
		Post:            post,
		AuthorPostCount: authorCount,
		Comments:        comments,
		CommentCount:    len(comments),
	}, nil
}

// ListPosts returns the requested page of all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, requestedPage int) (*PostPage, error) {
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	page := pagination.New(requestedPage, total)
	posts, err := s.postRepo.List(ctx, page.Size, page.Offset())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &PostPage{Posts: posts, Page: page}, nil
}

// ListGroupPosts returns the requested page of a group's posts. An unknown
// slug is a not-found error.
func (s *PostService) ListGroupPosts(ctx context.Context, slug string, requestedPage int) (*GroupPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	page := pagination.New(requestedPage, total)
	posts, err := s.postRepo.ListByGroup(ctx, group.ID, page.Size, page.Offset())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &GroupPage{Group: group, Posts: posts, Page: page}, nil
}

// GetProfile returns the requested page of an author's posts plus the
// viewer's follow state. viewerID is zero for anonymous viewers.
func (s *PostService) GetProfile(ctx context.Context, username string, viewerID uint, requestedPage int) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	page := pagination.New(requestedPage, total)
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, page.Size, page.Offset())
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	following := false
	if viewerID != 0 && viewerID != user.ID {
		following, err = s.followRepo.Exists(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &Profile{
		User:      user,
		Posts:     posts,
		Page:      page,
		PostCount: total,
		Following: following,
	}, nil
}

// ListFeed returns the requested page of posts by authors the user follows.
// A user who follows nobody gets an empty first page, not an error.
func (s *PostService) ListFeed(ctx context.Context, userID uint, requestedPage int) (*PostPage, error) {
	total, err := s.postRepo.CountFeed(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	page := pagination.New(requestedPage, total)
	posts, err := s.postRepo.ListFeed(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &PostPage{Posts: posts, Page: page}, nil
}
