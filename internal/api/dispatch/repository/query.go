package dispatchRepository

const (
	queryCreateDispatchRequest = `
		INSERT INTO dispatch_requests (
			id, command_id, source, status, reason,
			recognition_id, submitted_at, resolved_at
		) VALUES (
			:id, :command_id, :source, :status, :reason,
			:recognition_id, :submitted_at, :resolved_at
		)
	`

	queryResolveDispatchRequest = `
		UPDATE dispatch_requests
		SET
			status = :status,
			reason = :reason,
			resolved_at = :resolved_at
		WHERE id = :id AND status = 'pending'
	`

	queryGetDispatchRequestByID = `
		SELECT
			id, command_id, source, status, reason,
			recognition_id, submitted_at, resolved_at
		FROM dispatch_requests
		WHERE id = :id
	`

	queryGetDispatchHistory = `
		SELECT
			id, command_id, source, status, reason,
			recognition_id, submitted_at, resolved_at
		FROM dispatch_requests
		ORDER BY submitted_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountDispatchRequests = `
		SELECT COUNT(*)
		FROM dispatch_requests
	`

	queryCreateRecognitionResult = `
		INSERT INTO recognition_results (
			id, session_id, recognized_text, matched_command_id,
			language_guess, confidence, created_at
		) VALUES (
			:id, :session_id, :recognized_text, :matched_command_id,
			:language_guess, :confidence, :created_at
		)
	`

	queryGetRecognitionResultByID = `
		SELECT
			id, session_id, recognized_text, matched_command_id,
			language_guess, confidence, created_at
		FROM recognition_results
		WHERE id = :id
	`
)
