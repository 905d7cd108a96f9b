package deck

type ProgressType string

const (
	ProgressStatus       ProgressType = "status"
	ProgressSlidePreview ProgressType = "slide_preview"
	ProgressError        ProgressType = "error"
	ProgressComplete     ProgressType = "complete"
)

const (
	StepInit                 = "init"
	StepSegmentation         = "segmentation"
	StepSegmentationComplete = "segmentation_complete"
	StepSlideStart           = "slide_start"
	StepLayout               = "layout"
	StepLayoutComplete       = "layout_complete"
	StepAssets               = "assets"
	StepImageFound           = "image_found"
	StepAssembling           = "assembling"
	StepSlideComplete        = "slide_complete"
	StepFinalizing           = "finalizing"
	StepSaving               = "saving"
	StepComplete             = "complete"
)

// Progress is one event of a streaming run.
type Progress struct {
	Type         ProgressType    `json:"type"`
	Step         string          `json:"step,omitempty"`
	Message      string          `json:"message"`
	SlideIndex   int             `json:"slideIndex,omitempty"`
	TotalSlides  int             `json:"totalSlides,omitempty"`
	SlidePreview *AssembledSlide `json:"slidePreview,omitempty"`
	Percentage   float64         `json:"percentage"`
	Presentation any             `json:"presentation,omitempty"`
	Details      any             `json:"details,omitempty"`
}

// ProgressFunc receives events synchronously and in order.
type ProgressFunc func(Progress)
