package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/liliang-cn/movies/internal/data"
	"github.com/liliang-cn/movies/internal/validator"
)

var errBodyNotObject = errors.New("body must be a JSON object")

// listMoviesHandler 列出电影，genre 参数为空时不过滤
func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	filters := data.Filters{
		Genre: r.URL.Query().Get("genre"),
	}

	movies := app.models.Movies.GetAll(filters)

	err := app.writeJSON(w, http.StatusOK, movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	movie, err := app.models.Movies.Get(app.readIDParam(r))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.movieNotFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	var input map[string]any

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if input == nil {
		app.badRequestResponse(w, r, errBodyNotObject)
		return
	}

	v := validator.New()
	movie := data.ValidateMovie(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	app.models.Movies.Insert(movie)

	// 在响应头中返回新资源的位置
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/movies/%s", movie.ID))

	err = app.writeJSON(w, http.StatusCreated, movie, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler 部分更新，先校验请求体再查找记录
func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	var input map[string]any

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if input == nil {
		app.badRequestResponse(w, r, errBodyNotObject)
		return
	}

	v := validator.New()
	patch := data.ValidateMoviePatch(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	movie, err := app.models.Movies.Update(app.readIDParam(r), patch)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.movieNotFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	err := app.models.Movies.Delete(app.readIDParam(r))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.messageResponse(w, r, http.StatusNotFound, "Movie not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.messageResponse(w, r, http.StatusOK, "Movie deleted")
}
