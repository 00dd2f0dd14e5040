package v1

import (
	"net/http"
	"strconv"

	"go-jobportal-backend/internal/delivery/http/middleware"
	"go-jobportal-backend/internal/delivery/http/response"
	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/pkg/apperror"
	"go-jobportal-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recommendationUC domain.RecommendationUsecase
}

func NewRecommendationHandler(protected *gin.RouterGroup, recommendationUC domain.RecommendationUsecase) {
	handler := &RecommendationHandler{recommendationUC: recommendationUC}

	protected.GET("/recommendations/jobs", handler.RecommendJobs)

	// Employer-facing candidate search
	employers := protected.Group("/jobs")
	employers.Use(middleware.RequireRole(domain.RoleEmployer, domain.RoleAdmin))
	{
		employers.GET("/:id/potential-applicants", handler.PotentialApplicants)
	}
}

// TopNQuery is the shared ranking query string. Zero means the default.
type TopNQuery struct {
	TopN int `form:"top_n" binding:"top_n"`
}

func bindTopN(c *gin.Context) (int, bool) {
	var q TopNQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters").WithDetails(validation.FormatValidationErrors(err)))
		return 0, false
	}
	return q.TopN, true
}

// RecommendJobs godoc
// @Summary      Recommend jobs for the current user
// @Description  Ranks open jobs against the authenticated user's skills, bio and activity
// @Tags         recommendations
// @Produce      json
// @Param        top_n  query     int  false  "Maximum number of results (default 5)"
// @Success      200    {object}  response.Response{data=[]domain.RecommendedJob}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      502    {object}  response.Response
// @Router       /recommendations/jobs [get]
// @Security     BearerAuth
func (h *RecommendationHandler) RecommendJobs(c *gin.Context) {
	topN, ok := bindTopN(c)
	if !ok {
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	res, err := h.recommendationUC.RecommendJobsForUser(c.Request.Context(), userID, topN)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, res.Message, res.Data)
}

// PotentialApplicants godoc
// @Summary      Find potential applicants for a job
// @Description  Ranks job-seeking users against a job's requirements (Employer or Admin only)
// @Tags         recommendations
// @Produce      json
// @Param        id     path      int  true   "Job ID"
// @Param        top_n  query     int  false  "Maximum number of results (default 10)"
// @Success      200    {object}  response.Response{data=[]domain.PotentialApplicant}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      502    {object}  response.Response
// @Router       /jobs/{id}/potential-applicants [get]
// @Security     BearerAuth
func (h *RecommendationHandler) PotentialApplicants(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || jobID <= 0 {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	topN, ok := bindTopN(c)
	if !ok {
		return
	}

	res, err := h.recommendationUC.FindPotentialApplicantsForJob(c.Request.Context(), jobID, topN)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, res.Message, res.Data)
}
