package Controllers

import (
	"fmt"
	"time"

	"MagicPlanner/Planner"
	"MagicPlanner/Reports"

	"github.com/gofiber/fiber/v2"
)

// Progress lists every task with its checklist progress.
func (h *Handler) Progress(c *fiber.Ctx) error {
	return c.JSON(Planner.Overview(h.tracker.Buckets(), h.tracker.Index()))
}

// ExportProgress returns the progress overview as an Excel workbook.
func (h *Handler) ExportProgress(c *fiber.Ctx) error {
	buf, err := Reports.ExportProgress(Planner.Overview(h.tracker.Buckets(), h.tracker.Index()))
	if err != nil {
		return fail(c, err)
	}
	name := fmt.Sprintf("napredak_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(buf.Bytes())
}
