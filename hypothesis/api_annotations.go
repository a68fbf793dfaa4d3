package hypothesis

import (
	"context"
	"net/http"
	"net/url"
)

func annotationPath(id string) string {
	return "annotations/" + url.PathEscape(id)
}

// CreateAnnotation creates an annotation.
//
//	POST /annotations
func CreateAnnotation(ctx context.Context, conn ConnectionOptions, annotation NewAnnotation) (*Annotation, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateInput("new annotation", annotation); err != nil {
		return nil, err
	}

	body, err := marshalBody(annotation)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, "annotations", &RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}
	return decode[Annotation]("annotation", resp)
}

// FetchAnnotation fetches an annotation by its ID.
//
//	GET /annotations/{id}
func FetchAnnotation(ctx context.Context, conn ConnectionOptions, id string) (*Annotation, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("annotation id", id); err != nil {
		return nil, err
	}

	resp, err := do(ctx, conn, annotationPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decode[Annotation]("annotation", resp)
}

// UpdateAnnotation updates an annotation.
//
//	PATCH /annotations/{id}
func UpdateAnnotation(ctx context.Context, conn ConnectionOptions, id string, annotation NewAnnotation) (*Annotation, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("annotation id", id); err != nil {
		return nil, err
	}
	if err := validateInput("updated annotation", annotation); err != nil {
		return nil, err
	}

	body, err := marshalBody(annotation)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, annotationPath(id), &RequestOptions{Method: http.MethodPatch, Body: body})
	if err != nil {
		return nil, err
	}
	return decode[Annotation]("annotation", resp)
}

// DeleteAnnotation deletes an annotation and returns the ID the service
// reports as deleted.
//
//	DELETE /annotations/{id}
func DeleteAnnotation(ctx context.Context, conn ConnectionOptions, id string) (string, error) {
	if err := validateConnection(conn); err != nil {
		return "", err
	}
	if err := validateID("annotation id", id); err != nil {
		return "", err
	}

	resp, err := do(ctx, conn, annotationPath(id), &RequestOptions{Method: http.MethodDelete})
	if err != nil {
		return "", err
	}
	deleted, err := decode[deletedAnnotation]("deleted annotation", resp)
	if err != nil {
		return "", err
	}
	return deleted.ID, nil
}

// FlagAnnotation flags an annotation for review by a moderator.
//
//	PUT /annotations/{id}/flag
func FlagAnnotation(ctx context.Context, conn ConnectionOptions, id string) (bool, error) {
	return annotationAction(ctx, conn, id, http.MethodPut, "flag")
}

// HideAnnotation hides an annotation from other users. Moderators only.
//
//	PUT /annotations/{id}/hide
func HideAnnotation(ctx context.Context, conn ConnectionOptions, id string) (bool, error) {
	return annotationAction(ctx, conn, id, http.MethodPut, "hide")
}

// ShowAnnotation reverses HideAnnotation.
//
//	DELETE /annotations/{id}/hide
func ShowAnnotation(ctx context.Context, conn ConnectionOptions, id string) (bool, error) {
	return annotationAction(ctx, conn, id, http.MethodDelete, "hide")
}

func annotationAction(ctx context.Context, conn ConnectionOptions, id, method, action string) (bool, error) {
	if err := validateConnection(conn); err != nil {
		return false, err
	}
	if err := validateID("annotation id", id); err != nil {
		return false, err
	}

	if _, err := do(ctx, conn, annotationPath(id)+"/"+action, &RequestOptions{Method: method}); err != nil {
		return false, err
	}
	return true, nil
}
