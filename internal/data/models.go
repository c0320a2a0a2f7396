package data

import (
	"errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateID    = errors.New("duplicate movie id")
	ErrInvalidSeed    = errors.New("invalid seed data")
)

type Models struct {
	Movies *MovieModel
}

// NewModels 用初始数据构建内存模型
func NewModels(seed []*Movie) Models {
	return Models{
		Movies: NewMovieModel(seed),
	}
}
