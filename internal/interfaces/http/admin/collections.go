package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	admindomain "github.com/sngm3741/nasam-site/internal/admin/domain"
	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/interfaces/http/common"
)

// commandRequest is the wire form of an editor command.
type commandRequest struct {
	Type         string          `json:"type"`
	ID           string          `json:"id"`
	Item         json.RawMessage `json:"item,omitempty"`
	ConfirmToken string          `json:"confirmToken,omitempty"`
}

// decodeItem はコレクションに対応する content 型へデコードする。
func decodeItem(collection admindomain.Collection, raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: item is required", admindomain.ErrInvalid)
	}
	var (
		item any
		err  error
	)
	switch collection {
	case admindomain.CollectionHeroPhotos:
		var v content.HeroPhoto
		err = json.Unmarshal(raw, &v)
		item = v
	case admindomain.CollectionCategories:
		var v content.Category
		err = json.Unmarshal(raw, &v)
		item = v
	case admindomain.CollectionProjects:
		var v content.Project
		err = json.Unmarshal(raw, &v)
		item = v
	case admindomain.CollectionReviews:
		var v content.Review
		err = json.Unmarshal(raw, &v)
		item = v
	default:
		return nil, admindomain.ErrUnknownCollection
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", admindomain.ErrInvalid, err)
	}
	return item, nil
}

// toCommand converts the wire form into one of the editor command variants.
func (req commandRequest) toCommand(collection admindomain.Collection) (admindomain.Command, error) {
	target := admindomain.Target{Collection: collection, ID: strings.TrimSpace(req.ID)}
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "edit":
		item, err := decodeItem(collection, req.Item)
		if err != nil {
			return nil, err
		}
		return admindomain.Edit{Target: target, Item: item}, nil
	case "delete":
		return admindomain.Delete{Target: target, ConfirmToken: strings.TrimSpace(req.ConfirmToken)}, nil
	case "toggleapproval", "toggle-approval":
		return admindomain.ToggleApproval{Target: target}, nil
	}
	return nil, fmt.Errorf("%w: unknown command type %q", admindomain.ErrInvalid, req.Type)
}

func collectionParam(r *http.Request) (admindomain.Collection, error) {
	return admindomain.ParseCollection(chi.URLParam(r, "collection"))
}

func (h *Handler) listCollection(ctx context.Context, collection admindomain.Collection) (any, error) {
	switch collection {
	case admindomain.CollectionHeroPhotos:
		return h.editor.HeroPhotos(ctx)
	case admindomain.CollectionCategories:
		return h.editor.Categories(ctx)
	case admindomain.CollectionProjects:
		return h.editor.Projects(ctx)
	case admindomain.CollectionReviews:
		return h.editor.Reviews(ctx)
	}
	return nil, admindomain.ErrUnknownCollection
}

func (h *Handler) collectionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, err := collectionParam(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := h.listCollection(ctx, collection)
		if err != nil {
			h.writeCommandError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"collection": collection,
			"items":      items,
		})
	}
}

func (h *Handler) collectionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, err := collectionParam(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		var raw json.RawMessage
		if err := common.DecodeBody(r, &raw); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		item, err := decodeItem(collection, raw)
		if err != nil {
			h.writeCommandError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := h.editor.Create(ctx, item)
		if err != nil {
			h.writeCommandError(w, err)
			return
		}
		h.logger.Info("アイテムを作成", zap.String("collection", string(collection)), zap.String("id", id), zap.String("operator", operatorEmail(r)))
		common.WriteJSON(h.logger, w, http.StatusCreated, map[string]any{
			"collection": collection,
			"id":         id,
		})
	}
}

func (h *Handler) collectionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, err := collectionParam(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		var raw json.RawMessage
		if err := common.DecodeBody(r, &raw); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		h.dispatch(w, r, commandRequest{Type: "edit", ID: chi.URLParam(r, "id"), Item: raw}, collection)
	}
}

func (h *Handler) collectionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, err := collectionParam(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		token := r.URL.Query().Get("confirmToken")
		if token == "" {
			token = r.Header.Get("X-Confirm-Token")
		}
		h.dispatch(w, r, commandRequest{Type: "delete", ID: chi.URLParam(r, "id"), ConfirmToken: token}, collection)
	}
}

// commandHandler は Edit / Delete / ToggleApproval を 1 つのエンドポイントで受け付ける。
func (h *Handler) commandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, err := collectionParam(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		var req commandRequest
		if err := common.DecodeBody(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		h.dispatch(w, r, req, collection)
	}
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, req commandRequest, collection admindomain.Collection) {
	cmd, err := req.toCommand(collection)
	if err != nil {
		h.writeCommandError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	operator := operatorEmail(r)
	result, err := h.editor.Dispatch(ctx, operator, cmd)
	if err != nil {
		h.writeCommandError(w, err)
		return
	}
	h.logger.Info("コマンドを実行",
		zap.String("type", req.Type),
		zap.String("collection", string(collection)),
		zap.String("id", result.ID),
		zap.String("operator", operator),
	)
	common.WriteJSON(h.logger, w, http.StatusOK, result)
}
