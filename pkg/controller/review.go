package controller

import (
	"context"
	"net/http"

	"github.com/mistertoy/mistertoy-server/pkg/review"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// ReviewService is the slice of the review service the controller consumes.
type ReviewService interface {
	Query(ctx context.Context, filter *review.Filter) ([]review.View, error)
	Add(ctx context.Context, text, aboutToyID string) (*review.View, error)
	Remove(ctx context.Context, id string) (int64, error)
}

// ReviewController serves the /api/review routes.
type ReviewController struct {
	reviews ReviewService
}

func NewReviewController(reviews ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func (ct *ReviewController) Query(c router.Context) error {
	filter, err := review.ParseFilter(review.RawFilter{
		ByUserID:   c.Query("byUserId"),
		AboutToyID: c.Query("aboutToyId"),
	})
	if err != nil {
		return err
	}

	views, err := ct.reviews.Query(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func (ct *ReviewController) Add(c router.Context) error {
	var payload struct {
		Text       string `json:"txt"`
		AboutToyID string `json:"aboutToyId"`
	}
	if err := bindJSON(c, &payload); err != nil {
		return err
	}

	view, err := ct.reviews.Add(c.Request().Context(), payload.Text, payload.AboutToyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

func (ct *ReviewController) Remove(c router.Context) error {
	count, err := ct.reviews.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"removed": count})
}
