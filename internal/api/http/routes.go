package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/jma-weather-archive/internal/common"
	"github.com/i474232898/jma-weather-archive/internal/export"
	"github.com/i474232898/jma-weather-archive/internal/weather"
)

var validate = validator.New()

// DatasetLoader provides the exports of a previous scrape.
type DatasetLoader interface {
	Load() ([]weather.Station, []weather.Observation, error)
	Master() ([]weather.Station, error)
}

// RegisterRoutes wires the read-only dataset endpoints into the Fiber app.
// sourceURL reconstructs observation page links in validation reports; it may be nil.
func RegisterRoutes(app *fiber.App, data DatasetLoader, sourceURL func(weather.Observation) string) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		master, err := data.Master()
		if err != nil {
			return datasetError(err)
		}
		return c.JSON(fiber.Map{
			"count":    len(master),
			"stations": master,
		})
	})

	v1.Get("/validation", func(c *fiber.Ctx) error {
		var req validationQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		master, obs, err := data.Load()
		if err != nil {
			return datasetError(err)
		}
		report, err := weather.Validate(obs, master, req.Variable, weather.ValidateOptions{
			Lower:       req.From.Format(common.ISODate),
			Upper:       req.To.Format(common.ISODate),
			MaxExamples: req.Examples,
			SourceURL:   sourceURL,
		})
		if err != nil {
			if errors.Is(err, weather.ErrNoObservations) {
				return fiber.NewError(fiber.StatusNotFound, "no observations for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to validate dataset")
		}
		return c.JSON(report)
	})
}

func datasetError(err error) error {
	if errors.Is(err, export.ErrNoDataset) {
		return fiber.NewError(fiber.StatusNotFound, "no dataset exported yet")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read dataset")
}

// validationQuery holds query parameters for the validation endpoint.
type validationQuery struct {
	From     time.Time        `validate:"required"`
	To       time.Time        `validate:"required,gtefield=From"`
	Variable weather.Variable `validate:"required"`
	Examples int              `validate:"gte=0,lte=100"`
}

func (q *validationQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := common.ParseDate(fromStr)
	if err != nil {
		return err
	}
	to, err := common.ParseDate(toStr)
	if err != nil {
		return err
	}
	v, err := weather.ParseVariable(c.Query("variable", string(weather.VarTemperature)))
	if err != nil {
		return err
	}

	q.From = from
	q.To = to
	q.Variable = v
	q.Examples = c.QueryInt("examples", 3)
	return nil
}
