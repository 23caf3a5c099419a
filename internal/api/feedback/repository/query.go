package feedbackRepository

const (
	queryCreateFeedbackRecord = `
		INSERT INTO feedback_records (
			id, request_id, is_correct, sample_ref, recorded_at
		) VALUES (
			:id, :request_id, :is_correct, :sample_ref, :recorded_at
		)
	`

	queryGetFeedbackByRequestID = `
		SELECT
			id, request_id, is_correct, sample_ref, recorded_at
		FROM feedback_records
		WHERE request_id = :request_id
	`

	queryListFeedbackAfter = `
		SELECT
			id, request_id, is_correct, sample_ref, recorded_at
		FROM feedback_records
		WHERE id > :after_id
		ORDER BY id ASC
		LIMIT :limit
	`
)
