package http

import (
	"encoding/json"

	"github.com/parleychat/parley-server/internal/core"
	"github.com/parleychat/parley-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.ErrorPayload, error) {
	switch inbound.Type {
	case proto.InboundCreateRoom:
		var data proto.CreateRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandCreateRoom, Name: data.Name}, nil, nil

	case proto.InboundJoinRoom:
		data, perr, err := roomRef(inbound.Data)
		if perr != nil || err != nil {
			return nil, perr, err
		}
		return &core.Command{Kind: core.CommandJoinRoom, RoomID: data.RoomID}, nil, nil

	case proto.InboundLeaveRoom:
		data, perr, err := roomRef(inbound.Data)
		if perr != nil || err != nil {
			return nil, perr, err
		}
		return &core.Command{Kind: core.CommandLeaveRoom, RoomID: data.RoomID}, nil, nil

	case proto.InboundGetRooms:
		return &core.Command{Kind: core.CommandGetRooms}, nil, nil

	case proto.InboundGetMessages:
		data, perr, err := roomRef(inbound.Data)
		if perr != nil || err != nil {
			return nil, perr, err
		}
		return &core.Command{Kind: core.CommandGetMessages, RoomID: data.RoomID}, nil, nil

	case proto.InboundSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == 0 {
			return nil, badRequest("roomId is required"), nil
		}
		return &core.Command{Kind: core.CommandSendMessage, RoomID: data.RoomID, Text: data.Text}, nil, nil

	case proto.InboundDeleteMessage:
		var data proto.DeleteMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.MessageID == 0 {
			return nil, badRequest("messageId is required"), nil
		}
		return &core.Command{Kind: core.CommandDeleteMessage, MessageID: data.MessageID, RoomID: data.RoomID}, nil, nil

	case proto.InboundDeleteRoom:
		data, perr, err := roomRef(inbound.Data)
		if perr != nil || err != nil {
			return nil, perr, err
		}
		return &core.Command{Kind: core.CommandDeleteRoom, RoomID: data.RoomID}, nil, nil

	case proto.InboundAddUserToRoom:
		var data proto.AddUserData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == 0 || data.Username == "" {
			return nil, badRequest("roomId and username are required"), nil
		}
		return &core.Command{Kind: core.CommandAddParticipant, RoomID: data.RoomID, Username: data.Username}, nil, nil

	case proto.InboundGetRoomParticipants:
		data, perr, err := roomRef(inbound.Data)
		if perr != nil || err != nil {
			return nil, perr, err
		}
		return &core.Command{Kind: core.CommandGetParticipants, RoomID: data.RoomID}, nil, nil

	default:
		return nil, &proto.ErrorPayload{Code: core.ErrCodeValidation, Message: "unknown command type"}, nil
	}
}

func roomRef(raw json.RawMessage) (proto.RoomRefData, *proto.ErrorPayload, error) {
	var data proto.RoomRefData
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, nil, err
	}
	if data.RoomID == 0 {
		return data, badRequest("roomId is required"), nil
	}
	return data, nil, nil
}

func badRequest(msg string) *proto.ErrorPayload {
	return &proto.ErrorPayload{Code: core.ErrCodeValidation, Message: msg}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRooms:
		rooms := make([]proto.RoomPayload, 0, len(event.Rooms))
		for i := range event.Rooms {
			rooms = append(rooms, roomPayload(&event.Rooms[i]))
		}
		return proto.Outbound{Type: proto.OutboundRooms, Data: rooms}

	case core.EventRoomData:
		return proto.Outbound{Type: proto.OutboundRoomData, Data: roomPayload(event.Room)}

	case core.EventRoomUpdated:
		return proto.Outbound{Type: proto.OutboundRoomUpdated, Data: roomPayload(event.Room)}

	case core.EventMessages:
		messages := make([]proto.MessagePayload, 0, len(event.Messages))
		for i := range event.Messages {
			messages = append(messages, messagePayload(&event.Messages[i]))
		}
		return proto.Outbound{Type: proto.OutboundMessages, Data: proto.MessagesPayload{
			RoomID:   event.RoomID,
			Messages: messages,
		}}

	case core.EventMessage:
		return proto.Outbound{Type: proto.OutboundMessage, Data: messagePayload(event.Message)}

	case core.EventMessageDeleted:
		return proto.Outbound{Type: proto.OutboundMessageDeleted, Data: proto.MessageDeletedPayload{
			MessageID: event.MessageID,
			RoomID:    event.RoomID,
		}}

	case core.EventRoomDeleted:
		return proto.Outbound{Type: proto.OutboundRoomDeleted, Data: proto.RoomDeletedPayload{RoomID: event.RoomID}}

	case core.EventRoomParticipants:
		participants := make([]proto.UserPayload, 0, len(event.Participants))
		for _, p := range event.Participants {
			participants = append(participants, userPayload(p))
		}
		return proto.Outbound{Type: proto.OutboundRoomParticipants, Data: proto.ParticipantsPayload{
			RoomID:       event.RoomID,
			Participants: participants,
		}}

	case core.EventUserJoined:
		return proto.Outbound{Type: proto.OutboundUserJoined, Data: proto.PresencePayload{
			RoomID: event.RoomID,
			UserID: event.UserID,
		}}

	case core.EventUserLeft:
		return proto.Outbound{Type: proto.OutboundUserLeft, Data: proto.PresencePayload{
			RoomID: event.RoomID,
			UserID: event.UserID,
		}}

	case core.EventSuccess:
		return proto.Outbound{Type: proto.OutboundSuccess, Data: proto.SuccessPayload{Message: event.Info}}

	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundError, Data: proto.ErrorPayload{Code: core.ErrCodeInternal, Message: "unknown error"}}
		}
		return proto.Outbound{Type: proto.OutboundError, Data: proto.ErrorPayload{
			Code:    event.Error.Code,
			Message: event.Error.Message,
		}}

	default:
		return proto.Outbound{Type: proto.OutboundError, Data: proto.ErrorPayload{Code: core.ErrCodeInternal, Message: "unknown event"}}
	}
}

func userPayload(u core.UserRef) proto.UserPayload {
	return proto.UserPayload{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func roomPayload(r *core.RoomSnapshot) proto.RoomPayload {
	if r == nil {
		return proto.RoomPayload{}
	}
	participants := make([]proto.UserPayload, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, userPayload(p))
	}
	return proto.RoomPayload{
		ID:           r.ID,
		Name:         r.Name,
		Creator:      userPayload(r.Creator),
		Participants: participants,
		CreatedAt:    r.CreatedAt.Unix(),
	}
}

func messagePayload(m *core.MessageSnapshot) proto.MessagePayload {
	if m == nil {
		return proto.MessagePayload{}
	}
	return proto.MessagePayload{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Sender:    userPayload(m.Sender),
		Content:   m.Content,
		Timestamp: m.CreatedAt.Unix(),
	}
}
