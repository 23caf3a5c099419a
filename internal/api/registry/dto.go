package registry

import "MahoutGolang/internal/entity"

type CommandResponse struct {
	ID     int                        `json:"id"`
	Action string                     `json:"action"`
	Labels map[entity.Language]string `json:"labels"`
}

type CommandListResponse struct {
	Commands []CommandResponse `json:"commands"`
	Total    int               `json:"total"`
}

func MakeCommandResponse(cmd entity.Command) CommandResponse {
	return CommandResponse{
		ID:     cmd.ID,
		Action: cmd.Action,
		Labels: cmd.Labels,
	}
}
