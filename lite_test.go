package lite_test

import (
	"context"
	"testing"

	"github.com/golobby/lite"
	"github.com/golobby/lite/qb"
	"github.com/stretchr/testify/assert"
)

type Post struct {
	ID    int64 `db:"id,omitempty"`
	Title string
	Views int64
}

type Category struct {
	ID    int64 `db:"id,omitempty"`
	Title string
}

func (Category) TableName() string {
	return "post_categories"
}

func setup(t *testing.T) *lite.DB {
	db, err := lite.Open(lite.Config{Driver: "sqlite3", DSN: ":memory:", LogLevel: lite.LogLevelSilent})
	assert.NoError(t, err)
	db.Connection().DB().SetMaxOpenConns(1)

	ctx := context.Background()
	_, err = db.Exec(ctx, `CREATE TABLE IF NOT EXISTS posts (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, views INTEGER)`)
	assert.NoError(t, err)
	_, err = db.Exec(ctx, `CREATE TABLE IF NOT EXISTS post_categories (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT)`)
	assert.NoError(t, err)
	return db
}

func seed(t *testing.T, db *lite.DB) {
	_, err := db.Insert(context.Background(),
		&Post{Title: "first", Views: 10},
		&Post{Title: "second", Views: 20},
		&Post{Title: "third", Views: 30},
	)
	assert.NoError(t, err)
}

func TestInsertAndRead(t *testing.T) {
	ctx := context.Background()
	db := setup(t)
	seed(t, db)

	t.Run("count", func(t *testing.T) {
		n, err := db.For(Post{}).Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
	t.Run("get", func(t *testing.T) {
		rows, err := db.Table("posts").Where("views", ">", 10).OrderByDesc("views").Get(ctx, "title")
		assert.NoError(t, err)
		assert.Equal(t, []qb.Row{{"title": "third"}, {"title": "second"}}, rows)
	})
	t.Run("find", func(t *testing.T) {
		row, err := db.Table("posts").Find(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, qb.Row{"id": int64(2), "title": "second", "views": int64(20)}, row)

		row, err = db.Table("posts").Find(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, row)
	})
	t.Run("value", func(t *testing.T) {
		v, err := db.Table("posts").Where("id", 3).Value(ctx, "title")
		assert.NoError(t, err)
		assert.Equal(t, "third", v)
	})
	t.Run("aggregates", func(t *testing.T) {
		sum, err := db.Table("posts").Sum(ctx, "views")
		assert.NoError(t, err)
		assert.Equal(t, int64(60), sum)

		max, err := db.Table("posts").Max(ctx, "views")
		assert.NoError(t, err)
		assert.Equal(t, int64(30), max)

		avg, err := db.Table("posts").Avg(ctx, "views")
		assert.NoError(t, err)
		assert.Equal(t, 20.0, avg)
	})
	t.Run("aliased table", func(t *testing.T) {
		rows, err := db.TableAs("posts", "p").Where("p.views", ">", 25).Get(ctx, "p.title")
		assert.NoError(t, err)
		assert.Equal(t, []qb.Row{{"title": "third"}}, rows)
	})
	t.Run("where in subquery", func(t *testing.T) {
		rows, err := db.Table("posts").WhereIn("id", func(q *qb.Builder) {
			q.Select("id").From("posts").Where("views", ">=", 20)
		}).Get(ctx, "id")
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
	})
	t.Run("tabler", func(t *testing.T) {
		_, err := db.Insert(ctx, Category{Title: "go"})
		assert.NoError(t, err)
		n, err := db.For(&Category{}).Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := setup(t)
	seed(t, db)

	res, err := db.Table("posts").Where("views", "<", 25).Update(ctx, qb.Pairs{{Key: "views", Value: qb.Raw("views + 1")}})
	assert.NoError(t, err)
	affected, err := res.RowsAffected()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	sum, err := db.Table("posts").Sum(ctx, "views")
	assert.NoError(t, err)
	assert.Equal(t, int64(62), sum)

	_, err = db.Table("posts").Where("views", ">", 0).DeleteByID(ctx, 1)
	assert.NoError(t, err)
	_, err = db.Table("posts").Where("title", "third").Delete(ctx)
	assert.NoError(t, err)

	rows, err := db.Table("posts").Get(ctx, "title")
	assert.NoError(t, err)
	assert.Equal(t, []qb.Row{{"title": "second"}}, rows)
}

func TestPaginate(t *testing.T) {
	ctx := context.Background()
	db := setup(t)
	seed(t, db)

	p, err := db.Table("posts").OrderBy("id").Paginate(ctx, 2, 2, "title")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), p.Total)
	assert.Equal(t, 2, p.LastPage)
	assert.Equal(t, 3, p.From)
	assert.Equal(t, 3, p.To)
	assert.Equal(t, []qb.Row{{"title": "third"}}, p.Items)
	assert.False(t, p.HasMorePages())

	p, err = db.Table("posts").Where("views", ">", 100).Paginate(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Zero(t, p.Total)
	assert.Empty(t, p.Items)
}

func TestPretend(t *testing.T) {
	ctx := context.Background()
	db := setup(t)

	log := db.Connection().Pretending(func() {
		_, _ = db.Insert(ctx, &Post{Title: "ghost"})
	})
	assert.Len(t, log, 1)
	assert.Equal(t, `insert into "posts" ("title", "views") values (?, ?)`, log[0].Query)

	n, err := db.Table("posts").Count(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestInitialize(t *testing.T) {
	err := lite.Initialize(lite.Config{Name: "main", Driver: "sqlite", DSN: ":memory:", LogLevel: lite.LogLevelSilent})
	assert.NoError(t, err)
	db := lite.Get("main")
	assert.NotNil(t, db)
	assert.Equal(t, "main", db.Name())
	assert.Nil(t, lite.Get("missing"))
	assert.NoError(t, db.Close())

	err = lite.Initialize(lite.Config{Name: "bad", Driver: "oracle"})
	assert.ErrorIs(t, err, lite.ErrUnknownDriver)
}

func TestTableOf(t *testing.T) {
	type BlogPost struct{}
	type Person struct{}
	assert.Equal(t, "posts", lite.TableOf(Post{}))
	assert.Equal(t, "posts", lite.TableOf(&Post{}))
	assert.Equal(t, "blog_posts", lite.TableOf([]BlogPost{}))
	assert.Equal(t, "people", lite.TableOf(Person{}))
	assert.Equal(t, "post_categories", lite.TableOf(Category{}))
}
