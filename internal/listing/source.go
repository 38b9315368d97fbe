package listing

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/dummyjson"
)

// RemotePage is one page fetched from the upstream API together with the
// size of the whole remote collection.
type RemotePage[T any] struct {
	Items []T
	Total int
}

// Source fetches and deletes remote records.
type Source[T any] interface {
	Fetch(ctx context.Context, page, pageSize int) (RemotePage[T], error)
	Delete(ctx context.Context, id int) error
}

type funcSource[T any] struct {
	fetch func(ctx context.Context, page, pageSize int) (RemotePage[T], error)
	del   func(ctx context.Context, id int) error
}

func (s funcSource[T]) Fetch(ctx context.Context, page, pageSize int) (RemotePage[T], error) {
	return s.fetch(ctx, page, pageSize)
}

func (s funcSource[T]) Delete(ctx context.Context, id int) error {
	return s.del(ctx, id)
}

type PostsAPI interface {
	ListPosts(ctx context.Context, limit, page int) (*dummyjson.PostPage, error)
	DeletePost(ctx context.Context, id int) error
}

type CommentsAPI interface {
	ListComments(ctx context.Context, limit, page int) (*dummyjson.CommentPage, error)
	DeleteComment(ctx context.Context, id int) error
}

type ProductsAPI interface {
	ListProducts(ctx context.Context, page, limit int) (*dummyjson.ProductPage, error)
	DeleteProduct(ctx context.Context, id int) error
}

// PostSource adapts the posts endpoints.
func PostSource(api PostsAPI) Source[dummyjson.Post] {
	return funcSource[dummyjson.Post]{
		fetch: func(ctx context.Context, page, pageSize int) (RemotePage[dummyjson.Post], error) {
			res, err := api.ListPosts(ctx, pageSize, page)
			if err != nil {
				return RemotePage[dummyjson.Post]{}, err
			}
			return RemotePage[dummyjson.Post]{Items: res.Posts, Total: res.Total}, nil
		},
		del: api.DeletePost,
	}
}

// CommentSource adapts the comments endpoints.
func CommentSource(api CommentsAPI) Source[dummyjson.Comment] {
	return funcSource[dummyjson.Comment]{
		fetch: func(ctx context.Context, page, pageSize int) (RemotePage[dummyjson.Comment], error) {
			res, err := api.ListComments(ctx, pageSize, page)
			if err != nil {
				return RemotePage[dummyjson.Comment]{}, err
			}
			return RemotePage[dummyjson.Comment]{Items: res.Comments, Total: res.Total}, nil
		},
		del: api.DeleteComment,
	}
}

// ProductSource adapts the products endpoints.
func ProductSource(api ProductsAPI) Source[dummyjson.Product] {
	return funcSource[dummyjson.Product]{
		fetch: func(ctx context.Context, page, pageSize int) (RemotePage[dummyjson.Product], error) {
			res, err := api.ListProducts(ctx, page, pageSize)
			if err != nil {
				return RemotePage[dummyjson.Product]{}, err
			}
			return RemotePage[dummyjson.Product]{Items: res.Products, Total: res.Total}, nil
		},
		del: api.DeleteProduct,
	}
}
