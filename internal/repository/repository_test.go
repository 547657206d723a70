package repository_test

import (
	"testing"
	"time"

	"Inkwell/internal/data/datatest"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type repos struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	follows  repository.FollowRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	db       *gorm.DB
}

func newRepos(t *testing.T) repos {
	d, _ := datatest.New(t)
	r := repos{
		users:    repository.NewUserRepository(d.DB),
		roles:    repository.NewRoleRepository(d.DB),
		follows:  repository.NewFollowRepository(d.DB),
		posts:    repository.NewPostRepository(d.DB),
		comments: repository.NewCommentRepository(d.DB),
		db:       d.DB,
	}
	require.NoError(t, r.roles.InsertRoles())
	return r
}

func (r repos) user(t *testing.T, name string) *model.User {
	role, err := r.roles.GetDefault()
	require.NoError(t, err)
	u := &model.User{Username: name, RoleID: &role.ID}
	u.SetEmail(name + "@example.com")
	require.NoError(t, r.users.Create(u))
	return u
}

func TestInsertRolesIsIdempotent(t *testing.T) {
	r := newRepos(t)

	// tamper with one role, seeding again must restore it
	mod, err := r.roles.GetByName(model.RoleModerator)
	require.NoError(t, err)
	mod.Permissions = 0
	require.NoError(t, r.db.Save(mod).Error)

	require.NoError(t, r.roles.InsertRoles())
	require.NoError(t, r.roles.InsertRoles())

	roles, err := r.roles.List()
	require.NoError(t, err)
	require.Len(t, roles, 3)

	mod, err = r.roles.GetByName(model.RoleModerator)
	require.NoError(t, err)
	require.True(t, mod.Has(model.PermModerate))
	require.False(t, mod.Has(model.PermAdmin))

	def, err := r.roles.GetDefault()
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, def.Name)

	admin, err := r.roles.GetByName(model.RoleAdministrator)
	require.NoError(t, err)
	require.True(t, admin.Has(model.PermAdmin|model.PermModerate|model.PermWrite))
}

func TestUserLookupsAndUniqueness(t *testing.T) {
	r := newRepos(t)
	john := r.user(t, "john")

	got, err := r.users.GetByEmail("john@example.com")
	require.NoError(t, err)
	require.Equal(t, john.ID, got.ID)
	require.NotNil(t, got.Role)
	require.True(t, got.Can(model.PermWrite))

	_, err = r.users.GetByUsername("nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.True(t, r.users.IsEmailExist("john@example.com", 0))
	require.False(t, r.users.IsEmailExist("john@example.com", john.ID))
	require.True(t, r.users.IsUsernameExist("john", 0))
	require.False(t, r.users.IsUsernameExist("susan", 0))

	seen := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, r.users.Touch(john.ID, seen))
	got, err = r.users.GetByID(john.ID)
	require.NoError(t, err)
	require.True(t, got.LastSeen.Equal(seen))
}

func TestFollowEdges(t *testing.T) {
	r := newRepos(t)
	john, susan := r.user(t, "john"), r.user(t, "susan")
	now := time.Now()

	require.False(t, r.follows.IsFollowing(john.ID, susan.ID))
	require.NoError(t, r.follows.Follow(john.ID, susan.ID, now))
	require.NoError(t, r.follows.Follow(john.ID, susan.ID, now))
	require.True(t, r.follows.IsFollowing(john.ID, susan.ID))
	require.False(t, r.follows.IsFollowing(susan.ID, john.ID))
	require.Equal(t, int64(1), r.follows.CountFollowers(susan.ID))
	require.Equal(t, int64(1), r.follows.CountFollowed(john.ID))

	followers, err := r.follows.Followers(susan.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, followers.Items, 1)
	require.Equal(t, "john", followers.Items[0].Follower.Username)

	followed, err := r.follows.Followed(john.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, followed.Items, 1)
	require.Equal(t, "susan", followed.Items[0].Followed.Username)

	require.NoError(t, r.follows.Unfollow(john.ID, susan.ID))
	require.False(t, r.follows.IsFollowing(john.ID, susan.ID))
}

func TestAddSelfFollows(t *testing.T) {
	r := newRepos(t)
	john, susan := r.user(t, "john"), r.user(t, "susan")
	require.NoError(t, r.follows.Follow(john.ID, john.ID, time.Now()))

	n, err := r.follows.AddSelfFollows(time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, r.follows.IsFollowing(susan.ID, susan.ID))

	n, err = r.follows.AddSelfFollows(time.Now())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestFollowedPostsIncludeOwnPosts(t *testing.T) {
	r := newRepos(t)
	john, susan, mark := r.user(t, "john"), r.user(t, "susan"), r.user(t, "mark")
	now := time.Now()
	for _, u := range []*model.User{john, susan, mark} {
		require.NoError(t, r.follows.Follow(u.ID, u.ID, now))
	}
	require.NoError(t, r.follows.Follow(john.ID, susan.ID, now))

	base := time.Now().UTC()
	for i, author := range []*model.User{john, susan, mark} {
		require.NoError(t, r.posts.Create(&model.Post{
			Body:      "post by " + author.Username,
			AuthorID:  author.ID,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := r.posts.ListFollowed(john.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Equal(t, "post by susan", page.Items[0].Body)
	require.Equal(t, "post by john", page.Items[1].Body)
	require.Equal(t, "susan", page.Items[0].Author.Username)

	all, err := r.posts.List(1, 10)
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	require.Equal(t, "post by mark", all.Items[0].Body)

	mine, err := r.posts.ListByAuthor(mark.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	require.Equal(t, "<p>post by mark</p>", mine.Items[0].BodyHTML)
}

func TestPostSaveRegeneratesHTML(t *testing.T) {
	r := newRepos(t)
	john := r.user(t, "john")

	post := &model.Post{Body: "*first*", AuthorID: john.ID}
	require.NoError(t, r.posts.Create(post))

	post.Body = "**second**"
	require.NoError(t, r.posts.Save(post))

	got, err := r.posts.GetByID(post.ID)
	require.NoError(t, err)
	require.Equal(t, "<p><strong>second</strong></p>", got.BodyHTML)
	require.Equal(t, "john", got.Author.Username)
}

func TestCommentPaginationAndLastPage(t *testing.T) {
	r := newRepos(t)
	john := r.user(t, "john")
	post := &model.Post{Body: "post", AuthorID: john.ID}
	require.NoError(t, r.posts.Create(post))

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.comments.Create(&model.Comment{
			Body:      "comment",
			AuthorID:  john.ID,
			PostID:    post.ID,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.Equal(t, int64(5), r.posts.CountComments(post.ID))

	first, err := r.comments.ListByPost(post.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.Equal(t, 3, first.Pages())
	require.False(t, first.HasPrev())
	require.True(t, first.HasNext())

	last, err := r.comments.ListByPost(post.ID, repository.LastPage, 2)
	require.NoError(t, err)
	require.Equal(t, 3, last.Page)
	require.Len(t, last.Items, 1)
	require.True(t, last.HasPrev())
	require.False(t, last.HasNext())

	newest, err := r.comments.List(1, 1)
	require.NoError(t, err)
	require.Equal(t, last.Items[0].ID, newest.Items[0].ID)
	require.Equal(t, post.ID, newest.Items[0].Post.ID)
}

func TestEmptyPage(t *testing.T) {
	r := newRepos(t)

	page, err := r.posts.List(repository.LastPage, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Zero(t, page.Pages())
	require.Empty(t, page.Items)
	require.False(t, page.HasNext())
}
