package data

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/liliang-cn/movies/internal/validator"
)

// Genres 允许的电影类型
var Genres = []string{
	"Action",
	"Adventure",
	"Comedy",
	"Crime",
	"Horror",
	"Thriller",
	"Drama",
	"Sci-Fi",
	"Biography",
	"Romance",
	"Fantasy",
}

const (
	// 超过 2^53 的数字无法精确表示
	maxSafeInteger = 1 << 53

	minYear     = 1900
	maxYear     = 2026
	minRate     = 0
	maxRate     = 10
	defaultRate = 5
)

type Movie struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Director string   `json:"director"`
	Duration int      `json:"duration"` // 时长（分钟）
	Poster   string   `json:"poster"`
	Genre    []string `json:"genre"`
	Rate     float64  `json:"rate"`
}

func (m *Movie) clone() *Movie {
	c := *m
	c.Genre = slices.Clone(m.Genre)
	if c.Genre == nil {
		c.Genre = []string{}
	}
	return &c
}

// MoviePatch 部分更新的字段，nil 表示请求中没有该字段
type MoviePatch struct {
	Title    *string
	Year     *int
	Director *string
	Duration *int
	Poster   *string
	Genre    []string
	Rate     *float64
}

// apply 把 patch 中出现的字段覆盖到 movie 上，ID 不变
func (p MoviePatch) apply(movie *Movie) {
	if p.Title != nil {
		movie.Title = *p.Title
	}
	if p.Year != nil {
		movie.Year = *p.Year
	}
	if p.Director != nil {
		movie.Director = *p.Director
	}
	if p.Duration != nil {
		movie.Duration = *p.Duration
	}
	if p.Poster != nil {
		movie.Poster = *p.Poster
	}
	if p.Genre != nil {
		movie.Genre = slices.Clone(p.Genre)
	}
	if p.Rate != nil {
		movie.Rate = *p.Rate
	}
}

// ValidateMovie 校验创建电影的请求体，除 rate 外所有字段必填，rate 缺省为 5
func ValidateMovie(v *validator.Validator, input map[string]any) *Movie {
	p := readMovieFields(v, input, true)
	if !v.Valid() {
		return nil
	}

	movie := &Movie{Rate: defaultRate}
	p.apply(movie)

	return movie
}

// ValidateMoviePatch 校验部分更新的请求体，只校验出现的字段
func ValidateMoviePatch(v *validator.Validator, input map[string]any) MoviePatch {
	return readMovieFields(v, input, false)
}

func readMovieFields(v *validator.Validator, input map[string]any, required bool) MoviePatch {
	var p MoviePatch

	if s, ok := readString(v, input, "title", required); ok {
		v.Check(s != "", "title", "must not be empty")
		p.Title = &s
	}

	if n, ok := readInteger(v, input, "year", required); ok {
		v.Check(n >= minYear, "year", fmt.Sprintf("must be greater than or equal to %d", minYear))
		v.Check(n <= maxYear, "year", fmt.Sprintf("must be less than or equal to %d", maxYear))
		p.Year = &n
	}

	if s, ok := readString(v, input, "director", required); ok {
		v.Check(s != "", "director", "must not be empty")
		p.Director = &s
	}

	if n, ok := readInteger(v, input, "duration", required); ok {
		v.Check(n > 0, "duration", "must be a positive integer")
		p.Duration = &n
	}

	if s, ok := readString(v, input, "poster", required); ok {
		v.Check(validator.URL(s), "poster", "must be a valid URL")
		p.Poster = &s
	}

	if genres, ok := readGenres(v, input, "genre", required); ok {
		p.Genre = genres
	}

	// rate 永远不是必填
	if f, ok := readNumber(v, input, "rate", false); ok {
		v.Check(f >= minRate, "rate", fmt.Sprintf("must be greater than or equal to %d", minRate))
		v.Check(f <= maxRate, "rate", fmt.Sprintf("must be less than or equal to %d", maxRate))
		p.Rate = &f
	}

	return p
}

// lookup 取出字段值，字段缺失且必填时记录错误
func lookup(v *validator.Validator, input map[string]any, key string, required bool) (any, bool) {
	value, ok := input[key]
	if !ok {
		v.Check(!required, key, "must be provided")
		return nil, false
	}

	return value, true
}

func readString(v *validator.Validator, input map[string]any, key string, required bool) (string, bool) {
	value, ok := lookup(v, input, key, required)
	if !ok {
		return "", false
	}

	s, ok := value.(string)
	if !ok {
		v.AddError(key, "must be a string")
		return "", false
	}

	return s, true
}

func readNumber(v *validator.Validator, input map[string]any, key string, required bool) (float64, bool) {
	value, ok := lookup(v, input, key, required)
	if !ok {
		return 0, false
	}

	f, ok := toFloat(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		v.AddError(key, "must be a number")
		return 0, false
	}

	return f, true
}

func readInteger(v *validator.Validator, input map[string]any, key string, required bool) (int, bool) {
	value, ok := lookup(v, input, key, required)
	if !ok {
		return 0, false
	}

	f, ok := toFloat(value)
	if !ok || f != math.Trunc(f) || math.Abs(f) > maxSafeInteger {
		v.AddError(key, "must be an integer")
		return 0, false
	}

	return int(f), true
}

func readGenres(v *validator.Validator, input map[string]any, key string, required bool) ([]string, bool) {
	value, ok := lookup(v, input, key, required)
	if !ok {
		return nil, false
	}

	var items []any
	switch value := value.(type) {
	case []any:
		items = value
	case []string:
		for _, s := range value {
			items = append(items, s)
		}
	default:
		v.AddError(key, "must be an array")
		return nil, false
	}

	genres := make([]string, 0, len(items))
	for i, item := range items {
		itemKey := fmt.Sprintf("%s.%d", key, i)

		s, ok := item.(string)
		if !ok {
			v.AddError(itemKey, "must be a string")
			continue
		}

		v.Check(validator.In(s, Genres...), itemKey,
			fmt.Sprintf("invalid genre %q, expected one of %s", s, strings.Join(Genres, ", ")))
		genres = append(genres, s)
	}

	return genres, true
}

// toFloat 接受 JSON 解码后的数字类型
func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// MovieModel 内存中的电影列表，按创建顺序保存；所有读写都经过 mu
type MovieModel struct {
	mu     sync.RWMutex
	movies []*Movie
}

// NewMovieModel 用初始数据创建模型，seed 中的记录会被复制
func NewMovieModel(seed []*Movie) *MovieModel {
	m := &MovieModel{movies: make([]*Movie, 0, len(seed))}
	for _, movie := range seed {
		m.movies = append(m.movies, movie.clone())
	}
	return m
}

// indexOf 线性查找，调用方需持有锁
func (m *MovieModel) indexOf(id string) int {
	return slices.IndexFunc(m.movies, func(movie *Movie) bool {
		return movie.ID == id
	})
}

// Insert 生成新的 ID 并追加到列表末尾
func (m *MovieModel) Insert(movie *Movie) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	for m.indexOf(id) != -1 {
		id = uuid.NewString()
	}
	movie.ID = id

	m.movies = append(m.movies, movie.clone())
}

// Get 根据 ID 获取电影
func (m *MovieModel) Get(id string) (*Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i == -1 {
		return nil, ErrRecordNotFound
	}

	return m.movies[i].clone(), nil
}

// GetAll 返回满足过滤条件的电影，结果永远不为 nil
func (m *MovieModel) GetAll(filters Filters) []*Movie {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movies := []*Movie{}
	for _, movie := range m.movies {
		if filters.match(movie) {
			movies = append(movies, movie.clone())
		}
	}

	return movies
}

// Update 把 patch 覆盖到已有记录上，并在原位置替换
func (m *MovieModel) Update(id string, patch MoviePatch) (*Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i == -1 {
		return nil, ErrRecordNotFound
	}

	updated := m.movies[i].clone()
	patch.apply(updated)
	m.movies[i] = updated

	return updated.clone(), nil
}

// Delete 删除电影，其余记录保持顺序
func (m *MovieModel) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i == -1 {
		return ErrRecordNotFound
	}

	m.movies = slices.Delete(m.movies, i, i+1)

	return nil
}

// Len 返回当前电影数量
func (m *MovieModel) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.movies)
}
