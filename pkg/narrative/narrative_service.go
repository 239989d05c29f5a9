package narrative

import (
	"context"
	"fmt"

	"github.com/timestudy/timestudy/internal/messaging"
	"github.com/timestudy/timestudy/internal/observability"
	"github.com/timestudy/timestudy/pkg/stats"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetDigest(ctx context.Context) (Digest, error)
	// PublishDigest hands the digest to the broker, keyed by study uid.
	PublishDigest(ctx context.Context) (Digest, error)
}

type ServiceImpl struct {
	statsService stats.StatsService
	publisher    messaging.Publisher
	topic        string
}

func NewService(statsService stats.StatsService, publisher messaging.Publisher, topic string) *ServiceImpl {
	return &ServiceImpl{
		statsService: statsService,
		publisher:    publisher,
		topic:        topic,
	}
}

func (s *ServiceImpl) GetDigest(ctx context.Context) (Digest, error) {
	studyStats, err := s.statsService.GetStats(ctx)
	if err != nil {
		return Digest{}, err
	}
	return BuildDigest(studyStats), nil
}

func (s *ServiceImpl) PublishDigest(ctx context.Context) (Digest, error) {
	digest, err := s.GetDigest(ctx)
	if err != nil {
		return Digest{}, err
	}

	err = s.publisher.PublishJSON(ctx, s.topic, digest.StudyUid, digest)
	observability.RecordDigestPublished(err)
	if err != nil {
		log.Errorf("failed to publish digest of study %s: %v", digest.StudyUid, err)
		return Digest{}, fmt.Errorf("failed to publish digest: %w", err)
	}
	log.Infof("digest of study %s published to %s", digest.StudyUid, s.topic)
	return digest, nil
}
