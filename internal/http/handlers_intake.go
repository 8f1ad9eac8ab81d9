package http

import (
	"errors"
	"net/http"

	"despesas/internal/intake"
	"despesas/internal/log"
	"despesas/internal/services"
)

// maxUploadBytes bounds photo and file uploads.
const maxUploadBytes = 20 << 20

func receiptNotification(r intake.Receipt) services.Notification {
	return services.Notification{Level: services.LevelSuccess, Title: r.Title, Description: r.Description}
}

func (s *Server) handleIntakeVoice(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	receipt, err := intake.AcknowledgeTranscript(p.Get("transcript"))
	if err != nil {
		UnprocessableEntityError("Não foi possível capturar o áudio.").
			Notify(services.Notification{Level: services.LevelError, Title: "Erro no áudio", Description: "Não foi possível capturar o áudio."}).
			Write(w)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Voice entry received",
		log.FieldOperation, log.OpIntake, "chars", len(receipt.Transcript))
	NewResponse().Data(receipt).Notify(receiptNotification(receipt)).Write(w)
}

func (s *Server) handleIntakePhoto(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, intake.SourcePhoto)
}

func (s *Server) handleIntakeFile(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, intake.SourceFile)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, source intake.Source) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(http.StatusRequestEntityTooLarge, "Arquivo muito grande").Write(w)
			return
		}
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		UnprocessableEntityError("Nenhum arquivo enviado").Write(w)
		return
	}
	file.Close()

	receipt, err := intake.AcknowledgeUpload(source, header.Filename, header.Header.Get("Content-Type"))
	switch {
	case err == nil:
	case errors.Is(err, intake.ErrUnsupportedFile):
		ErrorResponse(http.StatusUnsupportedMediaType, "Tipo de arquivo não suportado").Write(w)
		return
	default:
		UnprocessableEntityError("Nenhum arquivo enviado").Write(w)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Upload received",
		log.FieldOperation, log.OpIntake,
		"source", string(source),
		"filename", receipt.Filename,
		"content_type", receipt.ContentType,
		"size", header.Size)
	NewResponse().Data(receipt).Notify(receiptNotification(receipt)).Write(w)
}
