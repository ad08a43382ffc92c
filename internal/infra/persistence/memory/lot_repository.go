package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/repository"
)

type lotRepository struct {
	conn func() *db
	now  func() time.Time
}

func (r *lotRepository) CreateLot(_ context.Context, lot *entity.CoffeeLot) error {
	return r.conn().write(func(st *state) error {
		for _, existing := range st.lots {
			if existing.LotNumber == lot.LotNumber {
				return repository.ErrDuplicateLot
			}
		}
		if lot.ID == uuid.Nil {
			lot.ID = uuid.New()
		}
		now := r.now()
		lot.CreatedAt, lot.UpdatedAt = now, now
		st.lots[lot.ID] = *lot

		return nil
	})
}

func (r *lotRepository) FindLotByID(_ context.Context, id uuid.UUID) (*entity.CoffeeLot, error) {
	var found *entity.CoffeeLot
	r.conn().read(func(st *state) {
		if l, ok := st.lots[id]; ok {
			found = &l
		}
	})
	if found == nil {
		return nil, repository.ErrLotNotFound
	}

	return found, nil
}

func (r *lotRepository) UpdateLotStatusIfCurrent(_ context.Context, id uuid.UUID, from, to entity.LotStatus) error {
	return r.conn().write(func(st *state) error {
		l, ok := st.lots[id]
		if !ok || l.Status != from {
			return repository.ErrLotStatusConflict
		}
		l.Status = to
		l.UpdatedAt = r.now()
		st.lots[id] = l

		return nil
	})
}

func (r *lotRepository) CreateInspection(_ context.Context, inspection *entity.QualityInspection) error {
	return r.conn().write(func(st *state) error {
		if _, ok := st.lots[inspection.LotID]; !ok {
			return repository.ErrLotNotFound
		}
		if inspection.ID == uuid.Nil {
			inspection.ID = uuid.New()
		}
		st.inspections[inspection.ID] = *inspection

		return nil
	})
}

func (r *lotRepository) FindInspectionByID(_ context.Context, id uuid.UUID) (*entity.QualityInspection, error) {
	var found *entity.QualityInspection
	r.conn().read(func(st *state) {
		if i, ok := st.inspections[id]; ok {
			found = &i
		}
	})
	if found == nil {
		return nil, repository.ErrInspectionNotFound
	}

	return found, nil
}

func (r *lotRepository) CreateContract(_ context.Context, contract *entity.SalesContract) error {
	return r.conn().write(func(st *state) error {
		for _, existing := range st.contracts {
			if existing.ContractNumber == contract.ContractNumber {
				return repository.ErrDuplicateContract
			}
		}
		if contract.ID == uuid.Nil {
			contract.ID = uuid.New()
		}
		now := r.now()
		contract.CreatedAt, contract.UpdatedAt = now, now
		st.contracts[contract.ID] = *contract

		return nil
	})
}

func (r *lotRepository) FindContractByID(_ context.Context, id uuid.UUID) (*entity.SalesContract, error) {
	var found *entity.SalesContract
	r.conn().read(func(st *state) {
		if c, ok := st.contracts[id]; ok {
			found = &c
		}
	})
	if found == nil {
		return nil, repository.ErrContractNotFound
	}

	return found, nil
}

func (r *lotRepository) UpdateContractStatus(_ context.Context, id uuid.UUID, status entity.ContractStatus) error {
	return r.conn().write(func(st *state) error {
		c, ok := st.contracts[id]
		if !ok {
			return repository.ErrContractNotFound
		}
		c.Status = status
		c.UpdatedAt = r.now()
		st.contracts[id] = c

		return nil
	})
}
