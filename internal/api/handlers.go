package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/export"
	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/service"
)

type handlers struct {
	svc    ScheduleService
	hub    *notify.Hub
	logger *zap.Logger
}

// bindForm собирает плоскую форму из JSON-объекта или form-urlencoded тела
func bindForm(c echo.Context) (service.Form, error) {
	form := service.Form{}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body map[string]any
		if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
			return nil, err
		}
		for field, value := range body {
			switch v := value.(type) {
			case nil:
			case string:
				form[field] = v
			default:
				form[field] = fmt.Sprint(v)
			}
		}
		return form, nil
	}

	params, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed form body").SetInternal(err)
	}
	for field, values := range params {
		if len(values) > 0 {
			form[field] = values[0]
		}
	}
	return form, nil
}

func created(c echo.Context, id string) error {
	return c.JSON(http.StatusCreated, model.OK(id))
}

func (h *handlers) listTeachers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.GetTeachers(c.Request().Context()))
}

func (h *handlers) addTeacher(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return err
	}
	teacher, err := h.svc.AddTeacher(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return created(c, teacher.ID)
}

func (h *handlers) deleteTeacher(c echo.Context) error {
	if err := h.svc.DeleteTeacher(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.OK())
}

func (h *handlers) listCourses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.GetCourses(c.Request().Context()))
}

func (h *handlers) addCourse(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return err
	}
	course, err := h.svc.AddCourse(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return created(c, course.ID)
}

func (h *handlers) deleteCourse(c echo.Context) error {
	if err := h.svc.DeleteCourse(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.OK())
}

func (h *handlers) listClasses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.GetClasses(c.Request().Context()))
}

func (h *handlers) addClass(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return err
	}
	class, err := h.svc.AddClass(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return created(c, class.ID)
}

func (h *handlers) deleteClass(c echo.Context) error {
	if err := h.svc.DeleteClass(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.OK())
}

func (h *handlers) listScheduleItems(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.GetScheduleItems(c.Request().Context()))
}

func (h *handlers) addScheduleItem(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return err
	}
	item, err := h.svc.AddScheduleItem(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return created(c, item.ID)
}

func (h *handlers) deleteScheduleItem(c echo.Context) error {
	if err := h.svc.DeleteScheduleItem(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.OK())
}

func (h *handlers) schedule(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.GetSchedule(c.Request().Context()))
}

func (h *handlers) exportSchedule(c echo.Context) error {
	tables := export.BuildTimetables(h.svc.GetSchedule(c.Request().Context()))
	data, err := export.RenderPNG(tables)
	if err != nil {
		return fmt.Errorf("render timetable: %w", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="schedule.png"`)
	return c.Blob(http.StatusOK, "image/png", data)
}

func (h *handlers) health(c echo.Context) error {
	if err := h.svc.Ping(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// events поток Server-Sent Events: по событию на каждое изменение данных
func (h *handlers) events(c echo.Context) error {
	events, cancel := h.hub.Subscribe()
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(res, ": connected\n\n"); err != nil {
		return nil
	}
	res.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("Failed to encode change event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(res, "event: change\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
