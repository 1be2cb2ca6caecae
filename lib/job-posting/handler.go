package jobpostinghandler

import (
	"strings"

	companystore "blytzwork-backend/lib/company/store"
	jobpostingstore "blytzwork-backend/lib/job-posting/store"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/models"
	jobapimodels "blytzwork-backend/models/api/job"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(actor models.Actor, data jobapimodels.JobPostingData) (jobapimodels.JobPostingView, error)
	Update(actor models.Actor, id string, data jobapimodels.JobPostingData) (jobapimodels.JobPostingView, error)
	Close(actor models.Actor, id string) error
	Delete(actor models.Actor, id string) error
	Get(id string) (jobapimodels.JobPostingView, error)
	List(filter jobapimodels.JobPostingFilter) ([]jobapimodels.JobPostingView, int64, error)
	ListOwn(actor models.Actor) ([]jobapimodels.JobPostingView, error)
}

func NewHandler(DB *gorm.DB) Provider {
	return &impl{
		store:        jobpostingstore.NewInstance(DB),
		companyStore: companystore.NewInstance(DB),
	}
}

type impl struct {
	store        jobpostingstore.Provider
	companyStore companystore.Provider
}

func (i impl) getLogger(userID, jobPostingID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if jobPostingID != "" {
		logger = logger.WithField("job_posting_id", jobPostingID)
	}
	return logger
}

func normalizeSkills(skills []string) []string {
	result := make([]string, 0, len(skills))
	seen := map[string]bool{}
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		result = append(result, skill)
	}
	return result
}

func (i impl) ownCompany(actor models.Actor) (*dbmodels.Company, error) {
	if actor.Role != models.UserRoleCompany {
		return nil, apperrors.NewForbidden("only companies manage job postings")
	}
	company, err := i.companyStore.GetByUserID(actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "company get error")
	}
	if company == nil {
		return nil, apperrors.NewNotFound("company profile not found")
	}
	return company, nil
}

func (i impl) owned(actor models.Actor, id string) (*dbmodels.JobPostingExt, error) {
	if _, err := i.ownCompany(actor); err != nil {
		return nil, err
	}
	rec, err := i.store.GetOwned(id, actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "job posting get error")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("job posting not found")
	}
	return rec, nil
}

func (i impl) Create(actor models.Actor, data jobapimodels.JobPostingData) (jobapimodels.JobPostingView, error) {
	company, err := i.ownCompany(actor)
	if err != nil {
		return jobapimodels.JobPostingView{}, err
	}
	if err = data.Validate(); err != nil {
		return jobapimodels.JobPostingView{}, apperrors.Validation(err)
	}
	rec := dbmodels.JobPosting{
		CompanyID:      company.ID,
		Title:          strings.TrimSpace(data.Title),
		Description:    data.Description,
		Skills:         normalizeSkills(data.Skills),
		EmploymentType: data.EmploymentType,
		RateMin:        data.RateMin,
		RateMax:        data.RateMax,
		Status:         models.JobPostingStatusOpen,
	}
	if err = rec.Validate(); err != nil {
		return jobapimodels.JobPostingView{}, apperrors.Validation(err)
	}
	created, err := i.store.Create(rec)
	if err != nil {
		return jobapimodels.JobPostingView{}, errors.Wrap(err, "job posting create error")
	}
	i.getLogger(actor.UserID, created.ID).Info("job posting created")
	return i.Get(created.ID)
}

func (i impl) Update(actor models.Actor, id string, data jobapimodels.JobPostingData) (jobapimodels.JobPostingView, error) {
	if err := data.Validate(); err != nil {
		return jobapimodels.JobPostingView{}, apperrors.Validation(err)
	}
	rec, err := i.owned(actor, id)
	if err != nil {
		return jobapimodels.JobPostingView{}, err
	}
	if rec.Status == models.JobPostingStatusClosed {
		return jobapimodels.JobPostingView{}, apperrors.NewConflict("closed job posting can not be edited")
	}
	updMap := map[string]interface{}{
		"title":           strings.TrimSpace(data.Title),
		"description":     data.Description,
		"employment_type": data.EmploymentType,
		"rate_min":        data.RateMin,
		"rate_max":        data.RateMax,
		"skills":          dbmodels.StringList(normalizeSkills(data.Skills)),
	}
	if err = i.store.Update(id, updMap); err != nil {
		return jobapimodels.JobPostingView{}, errors.Wrap(err, "job posting update error")
	}
	return i.Get(id)
}

func (i impl) Close(actor models.Actor, id string) error {
	rec, err := i.owned(actor, id)
	if err != nil {
		return err
	}
	if rec.Status == models.JobPostingStatusClosed {
		return nil
	}
	if err = i.store.Update(id, map[string]interface{}{"status": models.JobPostingStatusClosed}); err != nil {
		return errors.Wrap(err, "job posting close error")
	}
	i.getLogger(actor.UserID, id).Info("job posting closed")
	return nil
}

func (i impl) Delete(actor models.Actor, id string) error {
	if _, err := i.owned(actor, id); err != nil {
		return err
	}
	hasDependents, err := i.store.HasDependents(id)
	if err != nil {
		return errors.Wrap(err, "job posting dependents check error")
	}
	if hasDependents {
		return apperrors.NewConflict("job posting has matches or contracts, close it instead")
	}
	if err = i.store.Delete(id); err != nil {
		return errors.Wrap(err, "job posting delete error")
	}
	i.getLogger(actor.UserID, id).Info("job posting deleted")
	return nil
}

func (i impl) Get(id string) (jobapimodels.JobPostingView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return jobapimodels.JobPostingView{}, errors.Wrap(err, "job posting get error")
	}
	if rec == nil {
		return jobapimodels.JobPostingView{}, apperrors.NewNotFound("job posting not found")
	}
	return jobapimodels.JobPostingExtConvert(*rec), nil
}

func (i impl) List(filter jobapimodels.JobPostingFilter) ([]jobapimodels.JobPostingView, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, apperrors.Validation(err)
	}
	rowCount, err := i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := i.store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "job posting list error")
	}
	result := make([]jobapimodels.JobPostingView, 0, len(list))
	for _, rec := range list {
		result = append(result, jobapimodels.JobPostingExtConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) ListOwn(actor models.Actor) ([]jobapimodels.JobPostingView, error) {
	company, err := i.ownCompany(actor)
	if err != nil {
		return nil, err
	}
	list, err := i.store.ListByCompany(company.ID)
	if err != nil {
		return nil, errors.Wrap(err, "job posting list error")
	}
	result := make([]jobapimodels.JobPostingView, 0, len(list))
	for _, rec := range list {
		result = append(result, jobapimodels.JobPostingExtConvert(rec))
	}
	return result, nil
}
