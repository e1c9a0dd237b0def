package admin

// FabricUploadForm is the non-file part of the fabric upload form. A missing
// kind means image.
type FabricUploadForm struct {
	Kind string `form:"kind" binding:"omitempty,oneof=image work"`
}

// UploadSummary reports what an upload did.
type UploadSummary struct {
	Saved    []string `json:"saved"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
}
