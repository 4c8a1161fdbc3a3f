package main

import (
	"net/http"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrymomot/waypoint"
)

const postsPerPage = 10

type post struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// postStore is an in-memory post list shared by all requests.
type postStore struct {
	mu    sync.RWMutex
	posts []post
}

func newPostStore() *postStore {
	return &postStore{posts: []post{
		{Slug: "hello-waypoint", Title: "Hello, Waypoint"},
		{Slug: "route-caching", Title: "Caching the route table"},
	}}
}

func (s *postStore) page(n int) []post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := max(n-1, 0) * postsPerPage
	if start >= len(s.posts) {
		return []post{}
	}
	return slices.Clone(s.posts[start:min(start+postsPerPage, len(s.posts))])
}

func (s *postStore) find(slug string) (post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.posts, func(p post) bool { return p.Slug == slug })
	if i < 0 {
		return post{}, false
	}
	return s.posts[i], true
}

func (s *postStore) add(p post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = append(s.posts, p)
	sort.SliceStable(s.posts, func(i, j int) bool { return s.posts[i].Slug < s.posts[j].Slug })
}

type homeController struct {
	waypoint.BaseController
}

func newHomeController(waypoint.Resolver) (any, error) {
	c := &homeController{}
	c.Handle("index", func(ctx waypoint.Context) (any, error) {
		posts, err := ctx.URL("posts.index", nil)
		if err != nil {
			return nil, err
		}
		return map[string]string{"app": "waypoint", "posts": posts}, nil
	})
	return c, nil
}

type postController struct {
	waypoint.BaseController
	posts *postStore
}

func newPostController(r waypoint.Resolver) (any, error) {
	posts, err := waypoint.ResolveAs[*postStore](r)
	if err != nil {
		return nil, err
	}

	c := &postController{posts: posts}
	c.Handle("index", c.index)
	c.Register("show", waypoint.Injected{
		Params: []waypoint.Parameter{waypoint.Arg("slug")},
		Fn:     c.show,
	})
	c.Handle("store", c.store)
	return c, nil
}

func (c *postController) index(ctx waypoint.Context) (any, error) {
	page := waypoint.ParamDefault(ctx, "page", 1)
	return c.posts.page(page), nil
}

func (c *postController) show(ctx waypoint.Context, args []any) (any, error) {
	p, ok := c.posts.find(args[0].(string))
	if !ok {
		return nil, waypoint.ErrNotFound("post not found")
	}
	return p, nil
}

func (c *postController) store(ctx waypoint.Context) (any, error) {
	p := post{Slug: ctx.Request().FormValue("slug"), Title: ctx.Request().FormValue("title")}
	if p.Slug == "" || p.Title == "" {
		return nil, waypoint.ErrBadRequest("slug and title are required")
	}
	c.posts.add(p)

	u, err := ctx.URL("posts.show", map[string]any{"slug": p.Slug})
	if err != nil {
		return nil, err
	}
	ctx.SetHeader("Location", u)
	return ctx.JSON(http.StatusCreated, p)
}
